package xpath

import "errors"

var (
	ErrNoContextNode = errors.New("the expression requires a context node")
)
