package store

import (
	"fmt"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/keeldb/go-xmlstore/dom"
	"github.com/keeldb/go-xmlstore/gid"
	"github.com/keeldb/go-xmlstore/sax"
)

// pendingNode is one node of the buffered parse tree. The ingest path builds
// the whole tree before it can derive an order table, because the branching
// factors are only known once the document has been read to the end.
type pendingNode struct {
	node dom.Node
	// children holds the node's attribute children first, then its element
	// content, both in document order.
	children []*pendingNode
}

// DocumentBuilder turns a SAX event stream into a stored document. It
// buffers the parsed tree, and on the end document event derives the order
// table from the observed branching, assigns identifiers in a depth first
// walk and writes every record to the page store in document order.
//
// A builder ingests exactly one document; construct a new one per parse.
type DocumentBuilder struct {
	log        logger.Logger
	store      *MemStore
	docID      uuid.UUID
	collection string
	slack      uint64

	stack    []*pendingNode
	topLevel []*pendingNode
	root     *pendingNode
	charBuf  []byte

	doc *dom.Document
}

var _ sax.ContentHandler = (*DocumentBuilder)(nil)
var _ sax.LexicalHandler = (*DocumentBuilder)(nil)

func NewDocumentBuilder(log logger.Logger, store *MemStore, docID uuid.UUID, collection string) *DocumentBuilder {
	return &DocumentBuilder{
		log:        log,
		store:      store,
		docID:      docID,
		collection: collection,
		slack:      gid.DefaultSlack,
	}
}

// SetSlack overrides the headroom multiplier applied when the order table is
// derived. Call before parsing begins.
func (b *DocumentBuilder) SetSlack(slack uint64) { b.slack = slack }

// Document returns the stored document once the end document event has been
// handled, nil before that.
func (b *DocumentBuilder) Document() *dom.Document { return b.doc }

func (b *DocumentBuilder) StartDocument() error {
	b.stack = nil
	b.topLevel = nil
	b.root = nil
	b.charBuf = nil
	b.doc = nil
	return nil
}

func (b *DocumentBuilder) StartElement(uri, localName, qname string, atts sax.Attributes) error {
	b.flushCharacters()

	name := dom.NewQName(uri, localName, prefixOf(qname))
	elem := dom.NewElement(name)
	p := &pendingNode{node: elem}

	for i := 0; i < atts.Length(); i++ {
		attrName := dom.NewQName(atts.URI(i), atts.LocalName(i), prefixOf(atts.QName(i)))
		attr := dom.NewAttr(attrName, atts.Value(i), attrTypeOf(atts.Type(i)))
		p.children = append(p.children, &pendingNode{node: attr})
	}
	elem.SetAttributeCount(uint8(atts.Length()))

	if len(b.stack) == 0 {
		if b.root != nil {
			return fmt.Errorf("element %s after the root element closed: %w", qname, ErrMultipleRoots)
		}
		b.root = p
		b.topLevel = append(b.topLevel, p)
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.children = append(parent.children, p)
	}
	b.stack = append(b.stack, p)
	return nil
}

func (b *DocumentBuilder) EndElement(uri, localName, qname string) error {
	b.flushCharacters()

	p := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	p.node.(*dom.Element).SetChildCount(uint32(len(p.children)))
	return nil
}

func (b *DocumentBuilder) Characters(data []byte) error {
	if len(b.stack) == 0 {
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil
		}
		return fmt.Errorf("%q: %w", data, ErrMisplacedCharacters)
	}
	b.charBuf = append(b.charBuf, data...)
	return nil
}

func (b *DocumentBuilder) ProcessingInstruction(target, data string) error {
	b.flushCharacters()
	b.place(&pendingNode{node: dom.NewProcessingInstruction(target, data)})
	return nil
}

func (b *DocumentBuilder) Comment(data []byte) error {
	b.flushCharacters()
	b.place(&pendingNode{node: dom.NewComment(data)})
	return nil
}

// EndDocument closes the ingest: the order table is derived from the
// observed branching, identifiers are assigned depth first and every record
// is written to the store in document order.
func (b *DocumentBuilder) EndDocument() error {
	if b.root == nil {
		return ErrNoRootElement
	}

	observed := make([]uint64, treeDepth(b.root))
	observed[0] = 1
	observeBranching(b.root, 0, observed)

	order := gid.OrderWithSlack(observed, b.slack)
	grid, err := gid.NewGrid(order)
	if err != nil {
		return fmt.Errorf("deriving order table for document %s: %w", b.docID, err)
	}

	doc := dom.NewDocument(b.log, b.store, b.docID, b.collection, grid)
	for _, p := range b.topLevel {
		adoptDocument(p, doc)
	}

	if err = assignGIDs(grid, b.root, gid.Root, 0); err != nil {
		return fmt.Errorf("document %s: %w", b.docID, err)
	}

	for _, p := range b.topLevel {
		addr, werr := b.writeSubtree(doc, p)
		if werr != nil {
			return fmt.Errorf("document %s: %w", b.docID, werr)
		}
		doc.AppendTopLevel(p.node.GID(), addr)
	}

	b.doc = doc
	b.log.Debugf("stored document %s: depth %d, %d symbols", b.docID, grid.Depth(), doc.Symbols().Len())
	return nil
}

// place attaches a buffered node either to the open element or, outside the
// root element, to the document level list.
func (b *DocumentBuilder) place(p *pendingNode) {
	if len(b.stack) == 0 {
		b.topLevel = append(b.topLevel, p)
		return
	}
	parent := b.stack[len(b.stack)-1]
	parent.children = append(parent.children, p)
}

// flushCharacters coalesces the buffered character data into a single text
// node. Adjacent character events merge; a structural event cuts the run.
func (b *DocumentBuilder) flushCharacters() {
	if len(b.charBuf) == 0 {
		return
	}
	b.place(&pendingNode{node: dom.NewText(b.charBuf)})
	b.charBuf = b.charBuf[:0]
}

// writeSubtree serializes the pending subtree depth first, appending each
// record to the store and filing its address with the document. It returns
// the address of the subtree root.
func (b *DocumentBuilder) writeSubtree(doc *dom.Document, p *pendingNode) (int64, error) {
	data, err := p.node.Serialize()
	if err != nil {
		return dom.NoAddress, fmt.Errorf("serializing gid %d: %w", p.node.GID(), err)
	}
	addr, err := b.store.Put(data)
	if err != nil {
		return dom.NoAddress, fmt.Errorf("storing gid %d: %w", p.node.GID(), err)
	}
	p.node.SetInternalAddress(addr)
	b.store.Append(doc.ID(), p.node.GID(), addr)
	if p.node.GID() != gid.None {
		doc.SetNodeAddress(p.node.GID(), addr)
	}
	for _, child := range p.children {
		if _, err = b.writeSubtree(doc, child); err != nil {
			return dom.NoAddress, err
		}
	}
	return addr, nil
}

// prefixOf extracts the prefix from a qualified name as it appeared in the
// source text.
func prefixOf(qname string) string {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i]
	}
	return ""
}

func attrTypeOf(saxType string) dom.AttrType {
	switch saxType {
	case "ID":
		return dom.AttrID
	case "IDREF":
		return dom.AttrIDREF
	}
	return dom.AttrCDATA
}

// adoptDocument sets the owner on every node of the subtree so that name
// interning during serialization reaches the document's symbol table.
func adoptDocument(p *pendingNode, doc *dom.Document) {
	p.node.SetOwnerDocument(doc)
	for _, child := range p.children {
		adoptDocument(child, doc)
	}
}

// treeDepth counts the levels of the buffered tree, the root being level 0.
func treeDepth(p *pendingNode) int {
	depth := 1
	for _, child := range p.children {
		if d := treeDepth(child) + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// observeBranching records the widest child window seen at each level.
// observed[L+1] ends up holding the maximum child count over the nodes at
// level L.
func observeBranching(p *pendingNode, level int, observed []uint64) {
	if n := uint64(len(p.children)); level+1 < len(observed) && n > observed[level+1] {
		observed[level+1] = n
	}
	for _, child := range p.children {
		observeBranching(child, level+1, observed)
	}
}

// assignGIDs walks the subtree depth first, placing each node in its grid
// slot. The children of a node occupy consecutive slots starting at the
// node's first child position, attributes first.
func assignGIDs(grid *gid.Grid, p *pendingNode, id uint64, level int) error {
	p.node.SetGID(id)
	if len(p.children) == 0 {
		return nil
	}
	if err := grid.CheckBranching(level+1, uint64(len(p.children))); err != nil {
		return fmt.Errorf("gid %d with %d children at level %d: %w", id, len(p.children), level, err)
	}
	first := grid.FirstChild(id)
	if first == gid.None {
		return fmt.Errorf("gid %d has children below the deepest level: %w", id, gid.ErrOverflowingLevel)
	}
	for i, child := range p.children {
		if err := assignGIDs(grid, child, first+uint64(i), level+1); err != nil {
			return err
		}
	}
	return nil
}
