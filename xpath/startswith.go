package xpath

import "strings"

// FunStartsWith is the starts-with(a, b) function: true when the string
// value of the first argument begins with the string value of the second.
type FunStartsWith struct {
	arg1 Expression
	arg2 Expression
}

func NewFunStartsWith(arg1, arg2 Expression) *FunStartsWith {
	return &FunStartsWith{arg1: arg1, arg2: arg2}
}

func (f *FunStartsWith) Eval(ctx *Context) (Value, error) {
	v1, err := f.arg1.Eval(ctx)
	if err != nil {
		return nil, err
	}
	v2, err := f.arg2.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return ValueBoolean(strings.HasPrefix(v1.StringValue(), v2.StringValue())), nil
}

func (f *FunStartsWith) ReturnsType() Type { return TypeBoolean }

func (f *FunStartsWith) String() string {
	return "starts-with(" + f.arg1.String() + ", " + f.arg2.String() + ")"
}
