package vamp

import (
	"github.com/williambl/vampilang/pkg/vtype"
)

// Thunk is the value of a lambda expression: a resolved body waiting to be
// evaluated by the function that received it.
type Thunk struct {
	Type *vtype.Lambda
	Body Expression
}

var _ vtype.Deferred = (*Thunk)(nil)

// ResultType is the resolved type of the body.
func (th *Thunk) ResultType() vtype.Type {
	return th.Body.Type()
}

// Force evaluates the body in ctx extended with bindings. Every extra
// binding of the lambda type must be supplied at a type it contains.
func (th *Thunk) Force(ctx *Context, bindings map[string]Value) Value {
	for name, declared := range th.Type.ExtraBindings() {
		v, ok := bindings[name]
		if !ok {
			panic(preconditionf("lambda binding %q was not supplied", name))
		}
		if !declared.Contains(v.Type, ctx.Env()) {
			panic(preconditionf("lambda binding %q is %s, expected %s", name, v.Type, declared))
		}
	}
	return th.Body.Evaluate(ctx.WithAll(bindings))
}
