// Package vamp type-checks and evaluates vampilang programs.
//
// A host registers types and functions in an Environment, builds a program
// tree, resolves it against a Spec of free variables and evaluates the
// result against a Context binding those variables.
package vamp

import (
	"fmt"

	"github.com/williambl/vampilang/pkg/vtype"
)

// Expression is a node of a program tree.
//
// Trees are built unresolved, resolved against an Environment and a Spec,
// and then evaluated. Nodes are immutable: Resolve returns a new tree.
type Expression interface {
	// Resolve type-checks the tree and returns its resolved form. Every
	// failure in the tree is reported in a single *ResolveErrors.
	Resolve(env *Environment, spec Spec) (Expression, error)
	// Evaluate computes the value of a resolved tree. Evaluating an
	// unresolved tree, or against a Context that does not satisfy the Spec
	// the tree was resolved with, panics with a *PreconditionError.
	Evaluate(ctx *Context) Value
	// Type is the type of the node's value. It is nil until resolved,
	// except for nodes whose type is known up front.
	Type() vtype.Type
	// Resolved reports whether the node carries its resolved type.
	Resolved() bool
	// Children returns the direct sub-expressions.
	Children() []Expression
	// Describe renders the tree using the namer's type names.
	Describe(n *vtype.Namer) string
	fmt.Stringer

	expression()
}

// Resolve type-checks expr against env and spec.
func Resolve(expr Expression, env *Environment, spec Spec) (Expression, error) {
	return expr.Resolve(env, spec)
}

// Evaluate computes the value of a resolved expression.
func Evaluate(expr Expression, ctx *Context) Value {
	return expr.Evaluate(ctx)
}

// TryEvaluate is Evaluate, with precondition violations and runtime errors
// returned as errors rather than panics.
func TryEvaluate(expr Expression, ctx *Context) (v Value, err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case *PreconditionError:
			err = r
		case *RuntimeError:
			err = r
		default:
			panic(r)
		}
	}()
	return expr.Evaluate(ctx), nil
}

// Walk visits expr and its descendants depth-first. Returning false from
// fn skips the node's children.
func Walk(expr Expression, fn func(Expression) bool) {
	if !fn(expr) {
		return
	}
	for _, child := range expr.Children() {
		Walk(child, fn)
	}
}

// Visitor handles each kind of expression.
type Visitor[R any] interface {
	VisitLiteral(*Literal) R
	VisitVariableRef(*VariableRef) R
	VisitFunctionApplication(*FunctionApplication) R
	VisitObjectConstruction(*ObjectConstruction) R
	VisitListConstruction(*ListConstruction) R
	VisitLambda(*Lambda) R
}

// Visit dispatches expr to the matching method of v.
func Visit[R any](expr Expression, v Visitor[R]) R {
	switch e := expr.(type) {
	case *Literal:
		return v.VisitLiteral(e)
	case *VariableRef:
		return v.VisitVariableRef(e)
	case *FunctionApplication:
		return v.VisitFunctionApplication(e)
	case *ObjectConstruction:
		return v.VisitObjectConstruction(e)
	case *ListConstruction:
		return v.VisitListConstruction(e)
	case *Lambda:
		return v.VisitLambda(e)
	default:
		panic(fmt.Sprintf("unknown expression %T", expr))
	}
}
