package dom

import (
	"encoding/binary"

	"github.com/keeldb/go-xmlstore/sax"
)

// AttrType is the declared type of an attribute value.
type AttrType byte

const (
	AttrCDATA AttrType = iota
	AttrID
	AttrIDREF
)

func (t AttrType) String() string {
	switch t {
	case AttrID:
		return "ID"
	case AttrIDREF:
		return "IDREF"
	}
	return "CDATA"
}

// Attr is an attribute node. Attributes are stored as the leading children
// of their element's child window; the element records how many of its
// children are attributes.
type Attr struct {
	record
	value    string
	attrType AttrType
}

func NewAttr(name QName, value string, attrType AttrType) *Attr {
	a := &Attr{record: newRecord(AttributeNode, name), value: value, attrType: attrType}
	return a
}

func (a *Attr) Value() string { return a.value }

func (a *Attr) AttrType() AttrType { return a.attrType }

func (a *Attr) NodeValue() string { return a.value }

func (a *Attr) Serialize() ([]byte, error) {
	ref, err := a.resolveNameRef()
	if err != nil {
		return nil, err
	}
	class := widthClass(len(a.value))
	width, err := lengthWidth(class)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 1+4+1+width+len(a.value))
	buf = append(buf, sigAttr|class)
	buf = binary.BigEndian.AppendUint32(buf, uint32(ref))
	buf = append(buf, byte(a.attrType))
	buf = appendLength(buf, width, len(a.value))
	return append(buf, a.value...), nil
}

func deserializeAttr(sig byte, payload []byte, doc *Document) (*Attr, error) {
	width, err := lengthWidth(sig)
	if err != nil {
		return nil, err
	}
	if len(payload) < 5 {
		return nil, ErrTruncatedRecord
	}
	ref := NameRef(binary.BigEndian.Uint32(payload))
	attrType := AttrType(payload[4])
	value, _, err := readSpan(payload[5:], width)
	if err != nil {
		return nil, err
	}
	name := QName{}
	if doc != nil {
		if resolved, ok := doc.Symbols().Lookup(ref); ok {
			name = resolved
		}
	}
	a := NewAttr(name, string(value), attrType)
	a.nameRef = ref
	return a, nil
}

// ToSAX on a lone attribute emits nothing: attributes travel with their
// element's start event.
func (a *Attr) ToSAX(content sax.ContentHandler, lexical sax.LexicalHandler, first bool, namespaces map[string]bool) error {
	return nil
}

func (a *Attr) Clear() {
	a.record.clearAs(AttributeNode)
	a.value = ""
	a.attrType = AttrCDATA
}
