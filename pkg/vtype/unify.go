package vtype

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// TypeMismatchError is returned when an argument's type is not contained by
// the declared parameter type.
type TypeMismatchError struct {
	Param    string
	Declared Type
	Actual   Type
}

func (e *TypeMismatchError) Describe(n *Namer) string {
	return fmt.Sprintf("argument %q: expected %s, got %s", e.Param, e.Declared.Describe(n), e.Actual.Describe(n))
}

func (e *TypeMismatchError) Error() string {
	return e.Describe(NewNamer())
}

// MissingArgumentError is returned when a declared parameter has no argument.
type MissingArgumentError struct {
	Param    string
	Declared Type
}

func (e *MissingArgumentError) Describe(n *Namer) string {
	return fmt.Sprintf("missing argument %q of type %s", e.Param, e.Declared.Describe(n))
}

func (e *MissingArgumentError) Error() string {
	return e.Describe(NewNamer())
}

// UnexpectedArgumentError is returned for an argument the signature does not
// declare.
type UnexpectedArgumentError struct {
	Param string
}

func (e *UnexpectedArgumentError) Describe(*Namer) string {
	return fmt.Sprintf("unexpected argument %q", e.Param)
}

func (e *UnexpectedArgumentError) Error() string {
	return e.Describe(nil)
}

// TypeConflictError is returned when a template was observed at several
// types and none of them contains all the others.
type TypeConflictError struct {
	Template Template
	Types    []Type
}

func (e *TypeConflictError) Describe(n *Namer) string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = t.Describe(n)
	}
	return fmt.Sprintf("conflicting types for %s: %s", e.Template.Describe(n), strings.Join(names, ", "))
}

func (e *TypeConflictError) Error() string {
	return e.Describe(NewNamer())
}

// StructuralInvariantViolation is panicked when two types that passed the
// containment check turn out to have different shapes.
type StructuralInvariantViolation struct {
	Msg string
}

func (e StructuralInvariantViolation) Error() string {
	return "structural invariant violation: " + e.Msg
}

// Resolve binds the signature's templates against the actual argument
// types and returns the signature with every bound template substituted.
//
// The signature should be freshened first so that bindings from one call
// site cannot leak into another. All failures are reported together.
func (s *Signature) Resolve(actuals map[string]Type, u Universe) (*Signature, error) {
	var errs []error
	obs := newObservations()
	for _, name := range s.Names() {
		declared := s.inputs[name]
		actual, ok := actuals[name]
		if !ok {
			errs = append(errs, &MissingArgumentError{Param: name, Declared: declared})
			continue
		}
		if !declared.Contains(actual, u) {
			errs = append(errs, &TypeMismatchError{Param: name, Declared: declared, Actual: actual})
			continue
		}
		obs.observe(declared, actual)
	}
	for _, name := range sortedKeys(actuals) {
		if _, ok := s.inputs[name]; !ok {
			errs = append(errs, &UnexpectedArgumentError{Param: name})
		}
	}

	subs := Subs{}
	for _, tmpl := range obs.order {
		bound, err := reduce(tmpl, obs.seen[tmpl], u)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		subs[tmpl] = bound
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	inputs := make(map[string]Type, len(s.inputs))
	for name, t := range s.inputs {
		inputs[name] = subs.Apply(t)
	}
	resolved := &Signature{inputs: inputs, output: subs.Apply(s.output)}
	slog.Debug("resolved signature", "declared", s, "resolved", resolved)
	return resolved, nil
}

type observations struct {
	order []Template
	seen  map[Template][]Type
}

func newObservations() *observations {
	return &observations{seen: map[Template][]Type{}}
}

func (o *observations) observe(declared, actual Type) {
	if declared.Eq(actual) {
		return
	}
	switch d := declared.(type) {
	case Template:
		if _, ok := o.seen[d]; !ok {
			o.order = append(o.order, d)
		}
		o.seen[d] = append(o.seen[d], actual)
	case Composite:
		a, ok := actual.(Composite)
		if !ok {
			panic(StructuralInvariantViolation{
				Msg: fmt.Sprintf("%s is not parameterised like %s", actual, declared),
			})
		}
		dp, ap := d.Params(), a.Params()
		if len(dp) != len(ap) {
			panic(StructuralInvariantViolation{
				Msg: fmt.Sprintf("%s and %s have different arity", declared, actual),
			})
		}
		for i := range dp {
			o.observe(dp[i], ap[i])
		}
	}
}

// reduce picks the observed type that contains every other observation.
func reduce(tmpl Template, observed []Type, u Universe) (Type, error) {
	var distinct []Type
	for _, t := range observed {
		dup := false
		for _, d := range distinct {
			if d.Eq(t) {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, t)
		}
	}
	for _, candidate := range distinct {
		all := true
		for _, other := range distinct {
			if !candidate.Contains(other, u) {
				all = false
				break
			}
		}
		if all {
			return candidate, nil
		}
	}
	return nil, &TypeConflictError{Template: tmpl, Types: distinct}
}
