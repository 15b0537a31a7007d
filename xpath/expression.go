package xpath

import (
	"fmt"

	"github.com/keeldb/go-xmlstore/dom"
)

// Context is the evaluation context: the node an expression is applied to.
type Context struct {
	Node dom.Node
}

// Expression is one node of an expression tree. String renders the
// expression back to source form.
type Expression interface {
	Eval(ctx *Context) (Value, error)
	ReturnsType() Type
	fmt.Stringer
}

// StringLiteral is a quoted string in the expression source.
type StringLiteral string

func (s StringLiteral) Eval(ctx *Context) (Value, error) { return ValueString(s), nil }

func (s StringLiteral) ReturnsType() Type { return TypeString }

func (s StringLiteral) String() string { return fmt.Sprintf("%q", string(s)) }

// ContextValue evaluates to the string value of the context node.
type ContextValue struct{}

func (ContextValue) Eval(ctx *Context) (Value, error) {
	if ctx == nil || ctx.Node == nil {
		return nil, ErrNoContextNode
	}
	return ValueString(ctx.Node.NodeValue()), nil
}

func (ContextValue) ReturnsType() Type { return TypeString }

func (ContextValue) String() string { return "." }
