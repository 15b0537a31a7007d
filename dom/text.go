package dom

import (
	"github.com/keeldb/go-xmlstore/sax"
)

// Text is a character data node. The payload is raw utf8; it is owned by
// the node and copied on construction.
type Text struct {
	record
	data []byte
}

func NewText(data []byte) *Text {
	t := &Text{record: newRecord(TextNode, TextQName)}
	t.data = append(t.data, data...)
	return t
}

func (t *Text) Data() []byte { return t.data }

func (t *Text) NodeValue() string { return string(t.data) }

func (t *Text) Serialize() ([]byte, error) {
	width, err := lengthWidth(widthClass(len(t.data)))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 1+width+len(t.data))
	buf = append(buf, sigText|widthClass(len(t.data)))
	buf = appendLength(buf, width, len(t.data))
	return append(buf, t.data...), nil
}

func deserializeText(sig byte, payload []byte) (*Text, error) {
	width, err := lengthWidth(sig)
	if err != nil {
		return nil, err
	}
	span, _, err := readSpan(payload, width)
	if err != nil {
		return nil, err
	}
	return NewText(span), nil
}

func (t *Text) ToSAX(content sax.ContentHandler, lexical sax.LexicalHandler, first bool, namespaces map[string]bool) error {
	return content.Characters(t.data)
}

func (t *Text) Clear() {
	t.record.clearAs(TextNode)
	t.name = TextQName
	t.data = t.data[:0]
}
