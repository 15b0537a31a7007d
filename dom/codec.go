package dom

import "fmt"

// Serialize renders a node to its record bytes. The identifier and the
// internal address are not part of the record; they are bookkeeping of the
// page store.
func Serialize(n Node) ([]byte, error) {
	return n.Serialize()
}

// Deserialize reads one node record from data[start : start+length]. The
// caller supplies the owner document, which resolves name references, and
// assigns the identifier afterwards; neither travels in the bytes.
func Deserialize(data []byte, start, length int, doc *Document) (Node, error) {
	if start < 0 || length < 1 || start+length > len(data) {
		return nil, fmt.Errorf("record span [%d:%d) of %d bytes: %w",
			start, start+length, len(data), ErrTruncatedRecord)
	}
	span := data[start : start+length]
	sig := span[0]
	nodeType, err := signatureType(sig)
	if err != nil {
		return nil, err
	}

	var n Node
	switch nodeType {
	case TextNode:
		n, err = deserializeText(sig, span[1:])
	case CommentNode:
		n, err = deserializeComment(sig, span[1:])
	case ProcessingInstructionNode:
		n, err = deserializeProcessingInstruction(sig, span[1:])
	case AttributeNode:
		n, err = deserializeAttr(sig, span[1:], doc)
	case ElementNode:
		n, err = deserializeElement(sig, span[1:], doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", nodeType, err)
	}
	n.SetOwnerDocument(doc)
	return n, nil
}
