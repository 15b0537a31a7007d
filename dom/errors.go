package dom

import "errors"

var ErrNotSupported = errors.New("operation not supported on a stored node")

var (
	ErrCorruptNodeRecord = errors.New("the node record signature byte has no known type")
	ErrTruncatedRecord   = errors.New("the node record declares more bytes than are available")
	ErrTruncatedSubtree  = errors.New("the node iterator ended before the recorded child count was reached")
	ErrUnresolvedName    = errors.New("the node name was not interned in the document symbol table")
	ErrNoSuchNode        = errors.New("no node is recorded at the requested identifier")
	ErrDetachedNode      = errors.New("the node has no owner document to navigate through")
)
