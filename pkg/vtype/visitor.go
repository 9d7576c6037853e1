package vtype

import "fmt"

// Visitor handles each kind of type.
type Visitor[R any] interface {
	VisitAtomic(*Atomic) R
	VisitParameterised(*Parameterised) R
	VisitLambda(*Lambda) R
	VisitFixedTemplate(*FixedTemplate) R
	VisitDynamicTemplate(*DynamicTemplate) R
	VisitTopTemplate(*TopTemplate) R
}

// Visit dispatches t to the matching method of v.
func Visit[R any](t Type, v Visitor[R]) R {
	switch x := t.(type) {
	case *Atomic:
		return v.VisitAtomic(x)
	case *Parameterised:
		return v.VisitParameterised(x)
	case *Lambda:
		return v.VisitLambda(x)
	case *FixedTemplate:
		return v.VisitFixedTemplate(x)
	case *DynamicTemplate:
		return v.VisitDynamicTemplate(x)
	case *TopTemplate:
		return v.VisitTopTemplate(x)
	default:
		panic(fmt.Sprintf("unknown type kind %T", t))
	}
}
