package dom

import (
	"encoding/binary"
	"fmt"

	"github.com/keeldb/go-xmlstore/gid"
	"github.com/keeldb/go-xmlstore/sax"
)

// Element is an element node. The record does not embed its children:
// children are located by grid arithmetic and fetched on demand, so an
// element's byte form is a fixed size regardless of its subtree. The child
// count includes the attribute children, which occupy the first slots of
// the child window.
type Element struct {
	record
	children uint32
	// flags is an uninterpreted byte reserved in the record layout.
	flags byte
}

func NewElement(name QName) *Element {
	return &Element{record: newRecord(ElementNode, name)}
}

func (e *Element) ChildCount() uint32 { return e.children }

// SetChildCount records the total number of children, attributes included.
// It is set once by the ingest path before the record is serialized.
func (e *Element) SetChildCount(count uint32) { e.children = count }

func (e *Element) HasChildNodes() bool { return e.children > 0 }

// FirstChildGID returns the first slot of the element's child window. The
// slot may be unoccupied; consult ChildCount.
func (e *Element) FirstChildGID() uint64 {
	if e.doc == nil {
		return gid.None
	}
	return e.doc.Grid().FirstChild(e.gid)
}

// LastChildGID returns the last occupied slot of the child window, or None
// for a childless element.
func (e *Element) LastChildGID() uint64 {
	if e.children == 0 {
		return gid.None
	}
	first := e.FirstChildGID()
	if first == gid.None {
		return gid.None
	}
	return first + uint64(e.children) - 1
}

// FirstChild returns the first non-attribute child.
func (e *Element) FirstChild() (Node, error) {
	if e.doc == nil {
		return nil, ErrDetachedNode
	}
	if e.children <= uint32(e.attributes) {
		return nil, nil
	}
	return e.doc.GetNode(e.FirstChildGID() + uint64(e.attributes))
}

// LastChild returns the last child, which is never an attribute: an element
// whose only children are attributes reports no last child.
func (e *Element) LastChild() (Node, error) {
	if e.doc == nil {
		return nil, ErrDetachedNode
	}
	if e.children <= uint32(e.attributes) {
		return nil, nil
	}
	return e.doc.GetNode(e.LastChildGID())
}

// ChildNodes returns the non-attribute children in document order.
func (e *Element) ChildNodes() ([]Node, error) {
	if e.doc == nil {
		return nil, ErrDetachedNode
	}
	first := e.FirstChildGID()
	var nodes []Node
	for i := uint32(e.attributes); i < e.children; i++ {
		child, err := e.doc.GetNode(first + uint64(i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, child)
	}
	return nodes, nil
}

// Attributes returns the attribute children in document order.
func (e *Element) Attributes() ([]*Attr, error) {
	if e.doc == nil {
		return nil, ErrDetachedNode
	}
	first := e.FirstChildGID()
	var attrs []*Attr
	for i := uint32(0); i < uint32(e.attributes); i++ {
		child, err := e.doc.GetNode(first + uint64(i))
		if err != nil {
			return nil, err
		}
		attr, ok := child.(*Attr)
		if !ok {
			return nil, fmt.Errorf("gid %d is a %s where an attribute was recorded: %w",
				child.GID(), child.NodeType(), ErrCorruptNodeRecord)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// AttributeByName returns the named attribute, or nil if absent.
func (e *Element) AttributeByName(uri, localName string) (*Attr, error) {
	attrs, err := e.Attributes()
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		if a.NamespaceURI() == uri && a.LocalName() == localName {
			return a, nil
		}
	}
	return nil, nil
}

func (e *Element) Serialize() ([]byte, error) {
	ref, err := e.resolveNameRef()
	if err != nil {
		return nil, err
	}
	sig := sigElement
	if e.attributes > 0 {
		sig |= sigElementHasAttributes
	}
	buf := make([]byte, 0, 11)
	buf = append(buf, sig)
	buf = binary.BigEndian.AppendUint32(buf, uint32(ref))
	buf = append(buf, e.attributes)
	buf = binary.BigEndian.AppendUint32(buf, e.children)
	return append(buf, e.flags), nil
}

func deserializeElement(sig byte, payload []byte, doc *Document) (*Element, error) {
	if len(payload) < 10 {
		return nil, ErrTruncatedRecord
	}
	ref := NameRef(binary.BigEndian.Uint32(payload))
	name := QName{}
	if doc != nil {
		if resolved, ok := doc.Symbols().Lookup(ref); ok {
			name = resolved
		}
	}
	e := NewElement(name)
	e.nameRef = ref
	e.attributes = payload[4]
	e.children = binary.BigEndian.Uint32(payload[5:])
	e.flags = payload[9]
	return e, nil
}

// ToSAX re-emits the element and its subtree as handler events. The
// namespaces set tracks the uris already declared on the path from the
// serialization root; first marks the serialization root itself, which
// brackets the stream with document events.
func (e *Element) ToSAX(content sax.ContentHandler, lexical sax.LexicalHandler, first bool, namespaces map[string]bool) error {
	if namespaces == nil {
		namespaces = make(map[string]bool)
	}
	if first {
		if err := content.StartDocument(); err != nil {
			return err
		}
	}

	attrs, err := e.Attributes()
	if err != nil {
		return err
	}
	atts := make(sax.AttributeList, 0, len(attrs))
	for _, a := range attrs {
		atts = append(atts, sax.Attribute{
			URI:       a.NamespaceURI(),
			LocalName: a.LocalName(),
			QName:     a.NodeName(),
			Type:      a.AttrType().String(),
			Value:     a.Value(),
		})
	}

	uri := e.NamespaceURI()
	declared := false
	if uri != "" && !namespaces[uri] {
		namespaces[uri] = true
		declared = true
	}
	if err = content.StartElement(uri, e.LocalName(), e.NodeName(), atts); err != nil {
		return err
	}

	children, err := e.ChildNodes()
	if err != nil {
		return err
	}
	for _, child := range children {
		if err = child.ToSAX(content, lexical, false, namespaces); err != nil {
			return err
		}
	}

	if err = content.EndElement(uri, e.LocalName(), e.NodeName()); err != nil {
		return err
	}
	if declared {
		delete(namespaces, uri)
	}
	if first {
		return content.EndDocument()
	}
	return nil
}

func (e *Element) Clear() {
	e.record.clearAs(ElementNode)
	e.children = 0
	e.flags = 0
}
