package dom

import (
	"github.com/keeldb/go-xmlstore/sax"
)

// ProcessingInstruction carries a target and an uninterpreted data string.
type ProcessingInstruction struct {
	record
	target string
	data   string
}

func NewProcessingInstruction(target, data string) *ProcessingInstruction {
	return &ProcessingInstruction{
		record: newRecord(ProcessingInstructionNode, QName{localName: target}),
		target: target,
		data:   data,
	}
}

func (p *ProcessingInstruction) Target() string { return p.target }

func (p *ProcessingInstruction) Data() string { return p.data }

func (p *ProcessingInstruction) NodeValue() string { return p.data }

func (p *ProcessingInstruction) Serialize() ([]byte, error) {
	maxLen := len(p.target)
	if len(p.data) > maxLen {
		maxLen = len(p.data)
	}
	class := widthClass(maxLen)
	width, err := lengthWidth(class)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, 1+2*width+len(p.target)+len(p.data))
	buf = append(buf, sigProc|class)
	buf = appendLength(buf, width, len(p.target))
	buf = append(buf, p.target...)
	buf = appendLength(buf, width, len(p.data))
	return append(buf, p.data...), nil
}

func deserializeProcessingInstruction(sig byte, payload []byte) (*ProcessingInstruction, error) {
	width, err := lengthWidth(sig)
	if err != nil {
		return nil, err
	}
	target, rest, err := readSpan(payload, width)
	if err != nil {
		return nil, err
	}
	data, _, err := readSpan(rest, width)
	if err != nil {
		return nil, err
	}
	return NewProcessingInstruction(string(target), string(data)), nil
}

func (p *ProcessingInstruction) ToSAX(content sax.ContentHandler, lexical sax.LexicalHandler, first bool, namespaces map[string]bool) error {
	return content.ProcessingInstruction(p.target, p.data)
}

func (p *ProcessingInstruction) Clear() {
	p.record.clearAs(ProcessingInstructionNode)
	p.target = ""
	p.data = ""
}
