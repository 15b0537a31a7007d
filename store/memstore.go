package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/keeldb/go-xmlstore/dom"
)

// recordEntry is one slot of a document's record sequence. The sequence is
// kept in the order records were written, which is the depth first document
// order the ingest path produces.
type recordEntry struct {
	gid  uint64
	addr int64
}

// MemStore is the in-memory broker. Records are appended into fixed size
// pages and addressed by packed page/offset handles; each document also
// keeps its record sequence so NodeIterator can walk a subtree in document
// order.
//
// A single writer appends while any number of readers fetch; the lock is
// held only around the page table bookkeeping, never across a decode.
type MemStore struct {
	log   logger.Logger
	mu    sync.RWMutex
	pages [][]byte
	docs  map[uuid.UUID][]recordEntry
}

var _ dom.Broker = (*MemStore)(nil)

func NewMemStore(log logger.Logger) *MemStore {
	return &MemStore{log: log, docs: make(map[uuid.UUID][]recordEntry)}
}

// Put appends one record and returns its internal address. The record is
// length prefixed inside the page so Fetch can recover the span.
func (s *MemStore) Put(data []byte) (int64, error) {
	need := 2 + len(data)
	if need > pageSize {
		return dom.NoAddress, fmt.Errorf("%d bytes: %w", len(data), ErrRecordTooLarge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pages) == 0 || len(s.pages[len(s.pages)-1])+need > pageSize {
		s.pages = append(s.pages, make([]byte, 0, pageSize))
	}
	page := int64(len(s.pages) - 1)
	offset := len(s.pages[page])

	s.pages[page] = binary.BigEndian.AppendUint16(s.pages[page], uint16(len(data)))
	s.pages[page] = append(s.pages[page], data...)
	return PackAddress(page, offset), nil
}

// Append files an address in the document's record sequence. The ingest
// path calls it in document order, immediately after Put.
func (s *MemStore) Append(docID uuid.UUID, id uint64, addr int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docID] = append(s.docs[docID], recordEntry{gid: id, addr: addr})
}

// Evict drops a document's record sequence. The pages are not reclaimed;
// the in-memory store is not a compactor.
func (s *MemStore) Evict(docID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, docID)
}

// Fetch resolves one record span by internal address.
func (s *MemStore) Fetch(addr int64) ([]byte, error) {
	page, offset := UnpackAddress(addr)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 0 || page >= int64(len(s.pages)) || offset+2 > len(s.pages[page]) {
		return nil, fmt.Errorf("address %d: %w", addr, ErrAddressUnknown)
	}
	p := s.pages[page]
	n := int(binary.BigEndian.Uint16(p[offset:]))
	if offset+2+n > len(p) {
		return nil, fmt.Errorf("address %d: %w", addr, ErrAddressUnknown)
	}
	return p[offset+2 : offset+2+n], nil
}

// NodeIterator opens a document order walk starting at the proxy. The walk
// decodes lazily; it is finite and cannot be restarted, but SeekGID can
// reposition it within the document.
func (s *MemStore) NodeIterator(p dom.NodeProxy) (dom.NodeIterator, error) {
	if p.Doc == nil {
		return nil, ErrDocumentUnknown
	}

	s.mu.RLock()
	entries, ok := s.docs[p.Doc.ID()]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document %s: %w", p.Doc.ID(), ErrDocumentUnknown)
	}

	start := -1
	for i, e := range entries {
		if p.Address != dom.NoAddress {
			if e.addr == p.Address {
				start = i
				break
			}
			continue
		}
		if e.gid == p.GID {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("gid %d address %d: %w", p.GID, p.Address, ErrIterationSeek)
	}
	return &memIterator{store: s, doc: p.Doc, entries: entries, next: start}, nil
}

type memIterator struct {
	store   *MemStore
	doc     *dom.Document
	entries []recordEntry
	next    int
}

func (it *memIterator) Next() (dom.Node, bool) {
	if it.next >= len(it.entries) {
		return nil, false
	}
	e := it.entries[it.next]
	it.next++

	data, err := it.store.Fetch(e.addr)
	if err != nil {
		it.store.log.Infof("node iteration stopped at address %d: %v", e.addr, err)
		return nil, false
	}
	n, err := dom.Deserialize(data, 0, len(data), it.doc)
	if err != nil {
		it.store.log.Infof("node iteration stopped at address %d: %v", e.addr, err)
		return nil, false
	}
	n.SetGID(e.gid)
	n.SetInternalAddress(e.addr)
	return n, true
}

func (it *memIterator) SeekGID(id uint64) bool {
	for i, e := range it.entries {
		if e.gid == id {
			it.next = i
			return true
		}
	}
	return false
}
