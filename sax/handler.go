package sax

// Attributes exposes the attribute list reported with a start element event.
// Indexes run from 0 to Length()-1 in source order.
type Attributes interface {
	Length() int
	URI(index int) string
	LocalName(index int) string
	QName(index int) string
	Type(index int) string
	Value(index int) string
	// ValueByName returns the value of the named attribute and whether it
	// is present.
	ValueByName(uri, localName string) (string, bool)
}

// ContentHandler receives the structural events of a document stream.
type ContentHandler interface {
	StartDocument() error
	EndDocument() error
	StartElement(uri, localName, qname string, atts Attributes) error
	EndElement(uri, localName, qname string) error
	Characters(data []byte) error
	ProcessingInstruction(target, data string) error
}

// LexicalHandler receives events that carry no structural weight. It is
// optional wherever it is accepted; a nil LexicalHandler drops the events.
type LexicalHandler interface {
	Comment(data []byte) error
}
