package vamp

import (
	"github.com/williambl/vampilang/pkg/vtype"
)

// Func is the native implementation of a function. It receives the
// call-site's resolved signature and lazily evaluated arguments.
type Func func(ctx *Context, sig *vtype.Signature, args *Args) Value

// FunctionDefinition is a named native function with a declared signature.
type FunctionDefinition struct {
	Name      string
	Signature *vtype.Signature
	Impl      Func
}

// NewFunction creates a function definition.
func NewFunction(name string, sig *vtype.Signature, impl Func) *FunctionDefinition {
	return &FunctionDefinition{Name: name, Signature: sig, Impl: impl}
}

// Args gives a native implementation access to its arguments. Each argument
// is evaluated on first access and memoised for the rest of the call.
type Args struct {
	ctx   *Context
	exprs map[string]Expression
	memo  map[string]Value
}

func newArgs(ctx *Context, exprs map[string]Expression) *Args {
	return &Args{ctx: ctx, exprs: exprs, memo: make(map[string]Value, len(exprs))}
}

// Get evaluates the named argument.
func (a *Args) Get(name string) Value {
	if v, ok := a.memo[name]; ok {
		return v
	}
	expr, ok := a.exprs[name]
	if !ok {
		panic(preconditionf("no argument named %q", name))
	}
	v := expr.Evaluate(a.ctx)
	a.memo[name] = v
	return v
}

// Has reports whether the named argument was supplied.
func (a *Args) Has(name string) bool {
	_, ok := a.exprs[name]
	return ok
}
