package dom

import (
	"github.com/keeldb/go-xmlstore/sax"
)

// Comment is a comment node. Structurally it is character data filed under
// its own signature type.
type Comment struct {
	record
	data []byte
}

func NewComment(data []byte) *Comment {
	c := &Comment{record: newRecord(CommentNode, CommentQName)}
	c.data = append(c.data, data...)
	return c
}

func (c *Comment) Data() []byte { return c.data }

func (c *Comment) NodeValue() string { return string(c.data) }

func (c *Comment) Serialize() ([]byte, error) {
	width, err := lengthWidth(widthClass(len(c.data)))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 1+width+len(c.data))
	buf = append(buf, sigComment|widthClass(len(c.data)))
	buf = appendLength(buf, width, len(c.data))
	return append(buf, c.data...), nil
}

func deserializeComment(sig byte, payload []byte) (*Comment, error) {
	width, err := lengthWidth(sig)
	if err != nil {
		return nil, err
	}
	span, _, err := readSpan(payload, width)
	if err != nil {
		return nil, err
	}
	return NewComment(span), nil
}

func (c *Comment) ToSAX(content sax.ContentHandler, lexical sax.LexicalHandler, first bool, namespaces map[string]bool) error {
	if lexical == nil {
		return nil
	}
	return lexical.Comment(c.data)
}

func (c *Comment) Clear() {
	c.record.clearAs(CommentNode)
	c.name = CommentQName
	c.data = c.data[:0]
}
