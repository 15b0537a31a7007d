package dom

import (
	"fmt"

	"github.com/keeldb/go-xmlstore/gid"
	"github.com/keeldb/go-xmlstore/sax"
)

// NoAddress is the internal address of a node that has not been persisted.
const NoAddress int64 = -1

// Node is the read surface shared by every stored node variant. Navigation
// is answered by the owner document, which combines the grid arithmetic
// with on-demand decoding of the sibling and child records; a Node value on
// its own holds nothing but its record fields.
//
// The only sanctioned mutations are the bookkeeping setters used while a
// record is being built or recycled: identifier, address, owner and name.
// Structural DOM mutation belongs to an editing overlay, not to stored
// nodes; see Mutator.
type Node interface {
	NodeType() NodeType
	GID() uint64
	SetGID(id uint64)
	InternalAddress() int64
	SetInternalAddress(addr int64)
	QName() QName
	SetQName(name QName)
	NameRef() NameRef
	SetNameRef(ref NameRef)
	NamespaceURI() string
	LocalName() string
	Prefix() string
	NodeName() string
	NodeValue() string
	OwnerDocument() *Document
	SetOwnerDocument(doc *Document)

	AttributeCount() uint8
	ChildCount() uint32
	HasChildNodes() bool
	FirstChildGID() uint64
	LastChildGID() uint64

	ParentNode() (Node, error)
	PreviousSibling() (Node, error)
	NextSibling() (Node, error)
	FirstChild() (Node, error)
	LastChild() (Node, error)
	Path() (string, error)

	Serialize() ([]byte, error)
	ToSAX(content sax.ContentHandler, lexical sax.LexicalHandler, first bool, namespaces map[string]bool) error

	// Clear resets every field so a pooled record can be reused without
	// reallocating.
	Clear()
	fmt.Stringer
}

// Mutator is the structural mutation contract. Stored nodes satisfy it but
// refuse every operation with ErrNotSupported; an editable overlay layer
// would provide a working implementation.
type Mutator interface {
	AppendChild(child Node) error
	InsertBefore(newChild, refChild Node) error
	RemoveChild(child Node) error
	ReplaceChild(newChild, oldChild Node) error
	UpdateChild(oldChild, newChild Node) error
}

// SameNode reports node identity: two records address the same node when
// they carry the same identifier.
func SameNode(a, b Node) bool {
	return a != nil && b != nil && a.GID() == b.GID()
}

// record carries the fields common to every variant. Variants embed it and
// add their payload.
type record struct {
	nodeType NodeType
	gid      uint64
	// internalAddress is the opaque page store handle for the record
	// bytes, NoAddress until persisted.
	internalAddress int64
	name            QName
	nameRef         NameRef
	// attributes is the count of attribute children; attributes occupy
	// the first slots of an element's child window.
	attributes uint8
	doc        *Document
}

func newRecord(nodeType NodeType, name QName) record {
	return record{
		nodeType:        nodeType,
		internalAddress: NoAddress,
		name:            name,
		nameRef:         NameRefNone,
	}
}

func (n *record) NodeType() NodeType { return n.nodeType }

func (n *record) GID() uint64 { return n.gid }

func (n *record) SetGID(id uint64) { n.gid = id }

func (n *record) InternalAddress() int64 { return n.internalAddress }

func (n *record) SetInternalAddress(addr int64) { n.internalAddress = addr }

func (n *record) QName() QName { return n.name }

func (n *record) SetQName(name QName) { n.name = name }

func (n *record) NameRef() NameRef { return n.nameRef }

func (n *record) SetNameRef(ref NameRef) { n.nameRef = ref }

func (n *record) NamespaceURI() string { return n.name.NamespaceURI() }

func (n *record) LocalName() string { return n.name.LocalName() }

func (n *record) Prefix() string { return n.name.Prefix() }

func (n *record) NodeName() string { return n.name.String() }

func (n *record) NodeValue() string { return "" }

func (n *record) OwnerDocument() *Document { return n.doc }

func (n *record) SetOwnerDocument(doc *Document) { n.doc = doc }

func (n *record) AttributeCount() uint8 { return n.attributes }

// SetAttributeCount records how many attribute children the node carries.
func (n *record) SetAttributeCount(count uint8) { n.attributes = count }

func (n *record) ChildCount() uint32 { return 0 }

func (n *record) HasChildNodes() bool { return false }

func (n *record) FirstChildGID() uint64 { return gid.None }

func (n *record) LastChildGID() uint64 { return gid.None }

// ParentNode resolves the parent through the grid. A nil node with nil
// error means the parent is the document itself.
func (n *record) ParentNode() (Node, error) {
	if n.doc == nil {
		return nil, ErrDetachedNode
	}
	pid := n.doc.Grid().Parent(n.gid)
	if pid == gid.None {
		return nil, nil
	}
	return n.doc.GetNode(pid)
}

// PreviousSibling resolves the preceding sibling. Document level nodes are
// outside the grid and are answered from the document's top level list.
func (n *record) PreviousSibling() (Node, error) {
	if n.doc == nil {
		return nil, ErrDetachedNode
	}
	if level, ok := n.doc.Grid().TreeLevel(n.gid); !ok || level == 0 {
		return n.doc.PreviousSiblingOf(n.gid, n.internalAddress)
	}
	return n.doc.occupiedNode(n.doc.Grid().PreviousSibling(n.gid))
}

// NextSibling resolves the following sibling, analogously to
// PreviousSibling.
func (n *record) NextSibling() (Node, error) {
	if n.doc == nil {
		return nil, ErrDetachedNode
	}
	if level, ok := n.doc.Grid().TreeLevel(n.gid); !ok || level == 0 {
		return n.doc.FollowingSiblingOf(n.gid, n.internalAddress)
	}
	return n.doc.occupiedNode(n.doc.Grid().NextSibling(n.gid))
}

func (n *record) FirstChild() (Node, error) { return nil, nil }

func (n *record) LastChild() (Node, error) { return nil, nil }

// Path renders the /-joined local names from the document root down to the
// node. Nodes that are not elements contribute no segment of their own; the
// path of an attribute is the path of the element carrying it.
func (n *record) Path() (string, error) {
	if n.doc == nil {
		return "", ErrDetachedNode
	}
	var segments []string
	id := n.gid
	if n.nodeType == ElementNode {
		segments = append(segments, n.name.LocalName())
	}
	for {
		id = n.doc.Grid().Parent(id)
		if id == gid.None {
			break
		}
		ancestor, err := n.doc.GetNode(id)
		if err != nil {
			return "", err
		}
		segments = append(segments, ancestor.LocalName())
	}
	if len(segments) == 0 {
		return "/", nil
	}
	// collected bottom up
	var b []byte
	for i := len(segments) - 1; i >= 0; i-- {
		b = append(b, '/')
		b = append(b, segments[i]...)
	}
	return string(b), nil
}

func (n *record) String() string {
	return fmt.Sprintf("%d\t%s", n.gid, n.name)
}

func (n *record) Clear() {
	*n = record{internalAddress: NoAddress, nameRef: NameRefNone}
}

// clearAs resets the record for reuse as the given type.
func (n *record) clearAs(nodeType NodeType) {
	n.Clear()
	n.nodeType = nodeType
}

// Structural mutation is refused on stored nodes.

func (n *record) AppendChild(child Node) error { return ErrNotSupported }

func (n *record) InsertBefore(newChild, refChild Node) error { return ErrNotSupported }

func (n *record) RemoveChild(child Node) error { return ErrNotSupported }

func (n *record) ReplaceChild(newChild, oldChild Node) error { return ErrNotSupported }

func (n *record) UpdateChild(oldChild, newChild Node) error { return ErrNotSupported }

// resolveNameRef interns the node name on demand so that serialization can
// embed a stable reference.
func (n *record) resolveNameRef() (NameRef, error) {
	if n.nameRef != NameRefNone {
		return n.nameRef, nil
	}
	if n.doc == nil {
		return NameRefNone, fmt.Errorf("%s: %w", n.name, ErrUnresolvedName)
	}
	n.nameRef = n.doc.Symbols().Intern(n.name)
	return n.nameRef, nil
}
