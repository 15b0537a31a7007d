// Package dom implements the stored node model: qualified names, the
// per-document symbol table, the tagged record codec, the node variants
// behind a shared read surface, and the document wrapper that turns grid
// arithmetic plus record decoding into DOM navigation.
//
// A node record is addressed by a single integer identifier (see the gid
// package) and serialized to a compact tagged byte form (see
// signatures.go). Records never embed their children; the tree shape is
// recovered entirely from identifiers, so fetching a node costs one record
// decode regardless of its subtree size.
//
// Stored nodes are immutable once persisted. The Node interface is a read
// contract; the structural mutation methods exist only to refuse with
// ErrNotSupported.
package dom
