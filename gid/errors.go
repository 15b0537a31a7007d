package gid

import "errors"

var (
	ErrEmptyOrder       = errors.New("the order table must have at least one level")
	ErrZeroOrder        = errors.New("order table entries must be greater than zero")
	ErrOrderOverflow    = errors.New("the order table products exceed 64 bit identifier space")
	ErrOverflowingLevel = errors.New("a node has more children than the level order permits")
)
