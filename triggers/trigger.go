package triggers

import (
	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/keeldb/go-xmlstore/sax"
)

// Event identifies the collection operation a trigger is firing for.
type Event int

const (
	EventStore Event = iota
	EventUpdate
	EventRemove
)

func (e Event) String() string {
	switch e {
	case EventStore:
		return "store"
	case EventUpdate:
		return "update"
	case EventRemove:
		return "remove"
	}
	return "unknown"
}

// ExtractParam is one (index, element name) output of an extraction path.
type ExtractParam struct {
	Index       int
	ElementName string
}

// PathParam binds an xpath-like expression to its extraction outputs.
type PathParam struct {
	XPath    string
	Extracts []ExtractParam
}

// Parameters is the parsed parameter block of one trigger element in a
// collection configuration document. Values are either strings or nested
// parameter structures; each trigger validates the shapes it expects and
// rejects anything else at configure time.
type Parameters map[string][]any

// Trigger is the lifecycle contract of an ingest trigger. Configure runs
// once when the collection configuration is loaded; Prepare and Finish
// bracket each document operation the trigger fires for.
type Trigger interface {
	Configure(log logger.Logger, collection string, parameters Parameters) error
	Prepare(event Event, documentPath string) error
	Finish(event Event, documentPath string)
}

// FilteringTrigger forwards SAX events to the next handler in the ingest
// chain. Concrete triggers embed it and shadow the events they rewrite,
// calling the embedded forwarders for everything they pass through.
type FilteringTrigger struct {
	content sax.ContentHandler
	lexical sax.LexicalHandler
}

// SetOutput wires the downstream handlers. lexical may be nil.
func (t *FilteringTrigger) SetOutput(content sax.ContentHandler, lexical sax.LexicalHandler) {
	t.content = content
	t.lexical = lexical
}

func (t *FilteringTrigger) StartDocument() error { return t.content.StartDocument() }

func (t *FilteringTrigger) EndDocument() error { return t.content.EndDocument() }

func (t *FilteringTrigger) StartElement(uri, localName, qname string, atts sax.Attributes) error {
	return t.content.StartElement(uri, localName, qname, atts)
}

func (t *FilteringTrigger) EndElement(uri, localName, qname string) error {
	return t.content.EndElement(uri, localName, qname)
}

func (t *FilteringTrigger) Characters(data []byte) error {
	return t.content.Characters(data)
}

func (t *FilteringTrigger) ProcessingInstruction(target, data string) error {
	return t.content.ProcessingInstruction(target, data)
}

func (t *FilteringTrigger) Comment(data []byte) error {
	if t.lexical == nil {
		return nil
	}
	return t.lexical.Comment(data)
}
