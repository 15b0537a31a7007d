// Package gid implements the level-indexed addressing scheme that assigns
// every potential node position in a document tree a unique integer
// identifier. Parent, child and sibling relations are recovered from the
// identifier by integer arithmetic over the document's level order table,
// so navigation never needs to materialize the tree or chase pointers.
//
// Each document fixes an order table at creation time. order[L] bounds the
// number of children any node at level L-1 may have. Given the table, every
// level is assigned a contiguous block of identifiers:
//
//	levelStart[0] = 1
//	levelStart[1] = 2
//	levelStart[L+1] = levelStart[L] + slots[L-1]*order[L]
//
// where slots[L] is the width of the block at level L, so the block at
// level L is order[L] times as wide as the one above it. For the order table
// [2, 2, 2] the grid looks like:
//
//	level 0              1
//	                   /   \
//	level 1          2       3
//	                / \     / \
//	level 2        4   5   6   7
//
// Identifier 0 is reserved: it stands for "no node" and for the document
// itself when returned as a parent.
//
// A position being addressable does not mean it is occupied. Writers record
// the actual child count per node; readers must consult it before following
// a FirstChild result.
package gid
