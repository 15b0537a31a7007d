package gid

// Parent returns the identifier of the node's parent. The root of the grid
// has no parent element; for it, and for any identifier outside the grid,
// None is returned. Callers treat None as "the document".
//
// The relation is pure arithmetic: the sibling window of width order[L]
// containing id maps onto a single slot in the level above.
//
//	level 0              1
//	                   /   \
//	level 1          2       3
//	                / \     / \
//	level 2        4   5   6   7
//
// Parent(6) = (6-4)/2 + 2 = 3 with the order table [2, 2, 2].
func (g *Grid) Parent(id uint64) uint64 {
	level, ok := g.TreeLevel(id)
	if !ok || level == 0 {
		return None
	}
	return (id-g.starts[level])/g.order[level] + g.starts[level-1]
}

// FirstChild returns the identifier of the first child slot reserved for the
// node. The slot is defined for every node that is not on the deepest level;
// whether it is occupied is recorded by the node's child count, which the
// caller must consult. Nodes on the deepest level, and identifiers outside
// the grid, get None.
func (g *Grid) FirstChild(id uint64) uint64 {
	level, ok := g.TreeLevel(id)
	if !ok || level+1 >= len(g.order) {
		return None
	}
	return (id-g.starts[level])*g.order[level+1] + g.starts[level+1]
}

// siblingWindowStart returns the first identifier of the sibling window
// containing id, which is the first child slot of id's parent.
func (g *Grid) siblingWindowStart(id uint64, level int) uint64 {
	offset := id - g.starts[level]
	return id - offset%g.order[level]
}

// NextSibling returns id+1 when that identifier falls inside the same
// sibling window, and None when id is the last slot of its window. Level 0
// holds a single slot, so the root never has a grid sibling; document level
// siblings are tracked by the document, not the grid.
func (g *Grid) NextSibling(id uint64) uint64 {
	level, ok := g.TreeLevel(id)
	if !ok || level == 0 {
		return None
	}
	first := g.siblingWindowStart(id, level)
	if id+1 < first+g.order[level] {
		return id + 1
	}
	return None
}

// PreviousSibling returns id-1 when id is not the first slot of its sibling
// window, and None otherwise. As with NextSibling, the root never has a grid
// sibling.
func (g *Grid) PreviousSibling(id uint64) uint64 {
	level, ok := g.TreeLevel(id)
	if !ok || level == 0 {
		return None
	}
	if id > g.siblingWindowStart(id, level) {
		return id - 1
	}
	return None
}
