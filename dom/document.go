package dom

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/keeldb/go-xmlstore/gid"
)

// NodeProxy names a node without materializing it: the owner document, the
// identifier, and the internal address of the record bytes. It is what an
// index lookup produces and what seeds a broker iteration.
type NodeProxy struct {
	Doc     *Document
	GID     uint64
	Address int64
}

// NodeIterator is a finite, non-restartable sequence of decoded nodes in
// document order. SeekGID repositions the sequence at the record filed
// under the given identifier, when the broker has one.
type NodeIterator interface {
	Next() (Node, bool)
	SeekGID(id uint64) bool
}

// Broker is the page store handle a document reads through. Fetch resolves
// one record span by internal address; NodeIterator opens a document order
// walk starting at the proxy. Fetch may block while the page cache faults
// the span in.
type Broker interface {
	Fetch(addr int64) ([]byte, error)
	NodeIterator(p NodeProxy) (NodeIterator, error)
}

// Document owns the stored form of one XML document: the grid that maps
// identifiers to tree positions, the symbol table behind name references,
// the identifier-to-address lookup, and the ordered list of document level
// nodes. Node records hold a back reference to their document but never own
// it; the document exclusively owns its nodes and their bytes.
//
// A document is written by exactly one ingest pipeline and may afterwards
// be read by any number of concurrent readers; all the mutating methods
// belong to the ingest phase.
type Document struct {
	id         uuid.UUID
	collection string
	grid       *gid.Grid
	symbols    *SymbolTable
	broker     Broker
	log        logger.Logger

	// addresses is the gid to byte-span lookup, filled at ingest or
	// restored from metadata.
	addresses map[uint64]int64

	// topLevel holds the document level nodes (the root element and any
	// prolog or epilog comments and processing instructions) in document
	// order. These nodes sit outside the grid, so sibling navigation
	// among them scans this list.
	topLevel []NodeProxy
}

func NewDocument(log logger.Logger, broker Broker, id uuid.UUID, collection string, grid *gid.Grid) *Document {
	return &Document{
		id:         id,
		collection: collection,
		grid:       grid,
		symbols:    NewSymbolTable(),
		broker:     broker,
		log:        log,
		addresses:  make(map[uint64]int64),
	}
}

func (d *Document) ID() uuid.UUID { return d.id }

func (d *Document) Collection() string { return d.collection }

func (d *Document) Grid() *gid.Grid { return d.grid }

func (d *Document) Symbols() *SymbolTable { return d.symbols }

func (d *Document) Broker() Broker { return d.broker }

// RestoreSymbols replaces the symbol table with one rebuilt from persisted
// metadata. Load time only.
func (d *Document) RestoreSymbols(names []QName) {
	d.symbols = RestoreSymbolTable(names)
}

// SetNodeAddress records where the record for an identifier lives. Ingest
// fills the lookup as records are written.
func (d *Document) SetNodeAddress(id uint64, addr int64) {
	d.addresses[id] = addr
}

// NodeAddress returns the internal address filed for the identifier.
func (d *Document) NodeAddress(id uint64) (int64, bool) {
	addr, ok := d.addresses[id]
	return addr, ok
}

// Addresses returns a copy of the identifier-to-address lookup, which the
// metadata layer persists.
func (d *Document) Addresses() map[uint64]int64 {
	out := make(map[uint64]int64, len(d.addresses))
	for id, addr := range d.addresses {
		out[id] = addr
	}
	return out
}

// GetNode fetches and decodes the node filed under the identifier. The
// returned record carries its identifier and owner; errors from the codec
// and the broker are surfaced, never swallowed.
func (d *Document) GetNode(id uint64) (Node, error) {
	addr, ok := d.addresses[id]
	if !ok {
		return nil, fmt.Errorf("gid %d: %w", id, ErrNoSuchNode)
	}
	data, err := d.broker.Fetch(addr)
	if err != nil {
		return nil, fmt.Errorf("gid %d at address %d: %w", id, addr, err)
	}
	n, err := Deserialize(data, 0, len(data), d)
	if err != nil {
		return nil, fmt.Errorf("gid %d at address %d: %w", id, addr, err)
	}
	n.SetGID(id)
	n.SetInternalAddress(addr)
	return n, nil
}

// occupiedNode maps a grid slot to its node, or to nil when the slot is
// None or was never written. Sibling navigation uses it so that addressable
// but unoccupied positions read as "no sibling".
func (d *Document) occupiedNode(id uint64) (Node, error) {
	if id == gid.None {
		return nil, nil
	}
	if _, ok := d.addresses[id]; !ok {
		return nil, nil
	}
	return d.GetNode(id)
}

// TreeLevel, LevelStartPoint and LevelOrder are thin wrappers over the grid
// for the node records.

func (d *Document) TreeLevel(id uint64) (int, bool) { return d.grid.TreeLevel(id) }

func (d *Document) LevelStartPoint(level int) uint64 { return d.grid.LevelStart(level) }

func (d *Document) LevelOrder(level int) uint64 { return d.grid.LevelOrder(level) }

// AppendTopLevel files a document level node in document order. Ingest
// calls it for the root element and for prolog and epilog nodes.
func (d *Document) AppendTopLevel(id uint64, addr int64) {
	d.topLevel = append(d.topLevel, NodeProxy{Doc: d, GID: id, Address: addr})
}

// TopLevel returns the document level proxies in document order.
func (d *Document) TopLevel() []NodeProxy {
	return append([]NodeProxy(nil), d.topLevel...)
}

// RestoreTopLevel replaces the document level list from persisted metadata.
func (d *Document) RestoreTopLevel(proxies []NodeProxy) {
	d.topLevel = nil
	for _, p := range proxies {
		p.Doc = d
		d.topLevel = append(d.topLevel, p)
	}
}

// topLevelIndex locates a document level node by identity.
func (d *Document) topLevelIndex(id uint64, addr int64) int {
	for i, p := range d.topLevel {
		if p.GID == id && p.Address == addr {
			return i
		}
	}
	return -1
}

func (d *Document) topLevelNode(i int) (Node, error) {
	p := d.topLevel[i]
	if p.GID != gid.None {
		return d.GetNode(p.GID)
	}
	data, err := d.broker.Fetch(p.Address)
	if err != nil {
		return nil, fmt.Errorf("top level node at address %d: %w", p.Address, err)
	}
	n, err := Deserialize(data, 0, len(data), d)
	if err != nil {
		return nil, fmt.Errorf("top level node at address %d: %w", p.Address, err)
	}
	n.SetInternalAddress(p.Address)
	return n, nil
}

// PreviousSiblingOf answers sibling navigation for document level nodes by
// scanning the ordered top level list. A nil node means no sibling.
func (d *Document) PreviousSiblingOf(id uint64, addr int64) (Node, error) {
	i := d.topLevelIndex(id, addr)
	if i <= 0 {
		return nil, nil
	}
	return d.topLevelNode(i - 1)
}

// FollowingSiblingOf is the forward counterpart of PreviousSiblingOf.
func (d *Document) FollowingSiblingOf(id uint64, addr int64) (Node, error) {
	i := d.topLevelIndex(id, addr)
	if i < 0 || i+1 >= len(d.topLevel) {
		return nil, nil
	}
	return d.topLevelNode(i + 1)
}

// Root returns the document root element.
func (d *Document) Root() (Node, error) {
	return d.GetNode(gid.Root)
}
