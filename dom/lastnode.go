package dom

import "fmt"

// GetLastNode walks the pre-ordered iterator and returns the rightmost
// deepest descendant of node. Higher layers use it to find the end of a
// subtree's byte range before splicing.
//
// The iterator must be positioned just past node itself. The walk assigns
// identifiers as it goes: each record produced by the iterator receives the
// slot it occupies in its parent's child window. If the iterator runs dry
// before a recorded child count is satisfied the subtree is truncated.
func GetLastNode(it NodeIterator, node Node) (Node, error) {
	if !node.HasChildNodes() {
		return node, nil
	}
	firstChild := node.FirstChildGID()
	lastChild := firstChild + uint64(node.ChildCount())
	var last Node
	for id := firstChild; id < lastChild; id++ {
		next, ok := it.Next()
		if !ok {
			return nil, fmt.Errorf("gid %d of %d..%d under %d: %w",
				id, firstChild, lastChild-1, node.GID(), ErrTruncatedSubtree)
		}
		next.SetGID(id)
		var err error
		if last, err = GetLastNode(it, next); err != nil {
			return nil, err
		}
	}
	return last, nil
}

// LastNodeOf opens a broker iteration at the node and returns its rightmost
// deepest descendant, which is the node itself for a leaf.
func (d *Document) LastNodeOf(n Node) (Node, error) {
	p := NodeProxy{Doc: d, GID: n.GID(), Address: n.InternalAddress()}
	it, err := d.broker.NodeIterator(p)
	if err != nil {
		return nil, err
	}
	// the iteration starts at the node itself; step past it
	if _, ok := it.Next(); !ok {
		return nil, fmt.Errorf("gid %d: %w", n.GID(), ErrTruncatedSubtree)
	}
	return GetLastNode(it, n)
}
