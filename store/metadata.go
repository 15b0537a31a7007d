package store

import (
	"fmt"
	"sort"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/keeldb/go-xmlstore/dom"
	"github.com/keeldb/go-xmlstore/gid"
)

// SymbolEntry is the persisted form of one interned name. Entries are
// ordered; the position in the Symbols list is the name reference embedded
// in the node records.
type SymbolEntry struct {
	URI    string `cbor:"1,keyasint,omitempty"`
	Local  string `cbor:"2,keyasint"`
	Prefix string `cbor:"3,keyasint,omitempty"`
}

// NodeRef pairs an identifier with the internal address of its record.
type NodeRef struct {
	GID     uint64 `cbor:"1,keyasint"`
	Address int64  `cbor:"2,keyasint"`
}

// DocumentMetadata is everything needed to reopen a stored document against
// a broker that still holds its records: the order table behind the grid,
// the symbol table, the identifier-to-address lookup and the document level
// node list. It is the payload of the document seal.
type DocumentMetadata struct {
	ID         []byte        `cbor:"1,keyasint"`
	Collection string        `cbor:"2,keyasint,omitempty"`
	Order      []uint64      `cbor:"3,keyasint"`
	Symbols    []SymbolEntry `cbor:"4,keyasint"`
	Nodes      []NodeRef     `cbor:"5,keyasint"`
	TopLevel   []NodeRef     `cbor:"6,keyasint"`
}

// NewMetadataCodec returns the codec used for document metadata. Encoding is
// deterministic so that sealing the same document state twice produces the
// same payload bytes.
func NewMetadataCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}

// SnapshotMetadata captures the metadata of a stored document. The node list
// is ordered by identifier so the snapshot is stable for a given document
// state.
func SnapshotMetadata(doc *dom.Document) DocumentMetadata {
	id := doc.ID()
	md := DocumentMetadata{
		ID:         id[:],
		Collection: doc.Collection(),
		Order:      doc.Grid().Order(),
	}

	for _, name := range doc.Symbols().Names() {
		md.Symbols = append(md.Symbols, SymbolEntry{
			URI:    name.NamespaceURI(),
			Local:  name.LocalName(),
			Prefix: name.Prefix(),
		})
	}

	addresses := doc.Addresses()
	ids := make([]uint64, 0, len(addresses))
	for nodeID := range addresses {
		ids = append(ids, nodeID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, nodeID := range ids {
		md.Nodes = append(md.Nodes, NodeRef{GID: nodeID, Address: addresses[nodeID]})
	}

	for _, p := range doc.TopLevel() {
		md.TopLevel = append(md.TopLevel, NodeRef{GID: p.GID, Address: p.Address})
	}
	return md
}

// RestoreDocument reopens a document from its metadata against a broker that
// holds the records the metadata refers to.
func RestoreDocument(log logger.Logger, broker dom.Broker, md DocumentMetadata) (*dom.Document, error) {
	docID, err := uuid.FromBytes(md.ID)
	if err != nil {
		return nil, fmt.Errorf("document id: %w", err)
	}
	grid, err := gid.NewGrid(md.Order)
	if err != nil {
		return nil, fmt.Errorf("document %s order table: %w", docID, err)
	}

	doc := dom.NewDocument(log, broker, docID, md.Collection, grid)

	names := make([]dom.QName, 0, len(md.Symbols))
	for _, s := range md.Symbols {
		names = append(names, dom.NewQName(s.URI, s.Local, s.Prefix))
	}
	doc.RestoreSymbols(names)

	for _, ref := range md.Nodes {
		doc.SetNodeAddress(ref.GID, ref.Address)
	}

	proxies := make([]dom.NodeProxy, 0, len(md.TopLevel))
	for _, ref := range md.TopLevel {
		proxies = append(proxies, dom.NodeProxy{GID: ref.GID, Address: ref.Address})
	}
	doc.RestoreTopLevel(proxies)

	return doc, nil
}
