package dom

import "fmt"

// On-disk node record format.
//
// Every record is [signature byte | variant payload]. The signature's high
// nibble carries the node type; the low nibble carries variant flags. The
// identifier of the node is NOT part of the record: it is the key under
// which the record lives in the page store, so the same bytes can be filed
// at any grid position.
//
// Variant payloads:
//
//	text, comment    [len][utf8]
//	pi               [target len][target utf8][data len][data utf8]
//	attribute        [name ref: u32][attr type: u8][value len][value utf8]
//	element          [name ref: u32][attr count: u8][child count: u32][flags: u8]
//
// Multi-byte integers are big endian. The length fields of text, comment,
// pi and attribute records share a width selected per record by the width
// class in the signature's low two bits: class 0 writes 1-byte lengths,
// class 1 writes 2-byte lengths and class 3 writes 4-byte lengths. The
// writer picks the smallest class that fits the longest length in the
// record. A text node holding "hello" is therefore exactly
//
//	[0x30, 0x05, 'h', 'e', 'l', 'l', 'o']
//
// On element signatures the low nibble instead carries flag bits; only
// sigElementHasAttributes is currently assigned.
const (
	sigTypeMask  byte = 0xF0
	sigFlagsMask byte = 0x0F

	sigElement byte = 0x10
	sigAttr    byte = 0x20
	sigText    byte = 0x30
	sigComment byte = 0x40
	sigProc    byte = 0x50

	sigElementHasAttributes byte = 0x01

	sigWidthMask  byte = 0x03
	sigWidthOne   byte = 0x00
	sigWidthTwo   byte = 0x01
	sigWidthFour  byte = 0x03
)

// signatureType maps a signature byte back to the node type it stores.
func signatureType(sig byte) (NodeType, error) {
	switch sig & sigTypeMask {
	case sigElement:
		return ElementNode, nil
	case sigAttr:
		return AttributeNode, nil
	case sigText:
		return TextNode, nil
	case sigComment:
		return CommentNode, nil
	case sigProc:
		return ProcessingInstructionNode, nil
	}
	return 0, fmt.Errorf("signature 0x%02x: %w", sig, ErrCorruptNodeRecord)
}

// lengthWidth returns the byte width of the record's length fields.
func lengthWidth(sig byte) (int, error) {
	switch sig & sigWidthMask {
	case sigWidthOne:
		return 1, nil
	case sigWidthTwo:
		return 2, nil
	case sigWidthFour:
		return 4, nil
	}
	return 0, fmt.Errorf("signature 0x%02x length width: %w", sig, ErrCorruptNodeRecord)
}

// widthClass returns the smallest width class able to carry maxLen.
func widthClass(maxLen int) byte {
	switch {
	case maxLen <= 0xFF:
		return sigWidthOne
	case maxLen <= 0xFFFF:
		return sigWidthTwo
	default:
		return sigWidthFour
	}
}

// appendLength writes one length field at the given width.
func appendLength(buf []byte, width, length int) []byte {
	switch width {
	case 1:
		return append(buf, byte(length))
	case 2:
		return append(buf, byte(length>>8), byte(length))
	default:
		return append(buf, byte(length>>24), byte(length>>16), byte(length>>8), byte(length))
	}
}

// readLength consumes one length field, returning the length and the rest
// of the buffer.
func readLength(buf []byte, width int) (int, []byte, error) {
	if len(buf) < width {
		return 0, nil, ErrTruncatedRecord
	}
	var n int
	for i := 0; i < width; i++ {
		n = n<<8 | int(buf[i])
	}
	return n, buf[width:], nil
}

// readSpan consumes a length-prefixed byte span.
func readSpan(buf []byte, width int) ([]byte, []byte, error) {
	n, rest, err := readLength(buf, width)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) < n {
		return nil, nil, ErrTruncatedRecord
	}
	return rest[:n], rest[n:], nil
}
