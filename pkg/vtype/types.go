// Package vtype is the type system of vampilang: atomic, parameterised and
// lambda types, templates bounded by other types, and the unification that
// resolves a generic function signature against its argument types.
package vtype

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Type is a node in the type lattice.
//
// The set of implementations is closed: Atomic, Parameterised, Lambda,
// FixedTemplate, DynamicTemplate and TopTemplate.
type Type interface {
	// Contains reports whether every value of other is also a value of
	// this type. The universe supplies the registered types for templates
	// whose bounds are computed.
	Contains(other Type, u Universe) bool
	// Accepts reports whether a raw payload belongs to this type.
	Accepts(payload any, u Universe) bool
	// Freshen returns a copy of the type where every template has been
	// replaced by a fresh one. Replacements are memoised in seen.
	Freshen(seen Fresh) Type
	// Eq reports identity for atomic types and templates, and structural
	// equality for parameterised types.
	Eq(other Type) bool
	// ID is a stable handle, unique per type instance.
	ID() uint64
	// Describe renders the type using the namer's names.
	Describe(n *Namer) string
	fmt.Stringer

	contains(other Type, u Universe, g *guard) bool
	accepts(payload any, u Universe, g *guard) bool
}

// Universe supplies the registered types to templates whose bounds are
// computed rather than fixed.
type Universe interface {
	AllTypes() []Type
}

var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// Atomic is an opaque type defined entirely by its membership predicate.
type Atomic struct {
	id        uint64
	predicate func(any) bool
	repr      reflect.Type

	properties map[string]Type
	construct  func(map[string]Value) any
}

// NewAtomic creates an atomic type that accepts payloads matching pred.
func NewAtomic(pred func(any) bool) *Atomic {
	return &Atomic{id: nextID(), predicate: pred}
}

// NewTyped creates an atomic type whose payloads are Go values of type T.
func NewTyped[T any]() *Atomic {
	repr := reflect.TypeFor[T]()
	return &Atomic{
		id:   nextID(),
		repr: repr,
		predicate: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
	}
}

// NewObject creates a constructable atomic type. Its payloads are built by
// construct from the evaluated properties named in the schema.
func NewObject[T any](properties map[string]Type, construct func(map[string]Value) T) *Atomic {
	t := NewTyped[T]()
	t.properties = make(map[string]Type, len(properties))
	for k, v := range properties {
		t.properties[k] = v
	}
	t.construct = func(props map[string]Value) any {
		return construct(props)
	}
	return t
}

// Repr returns the Go type of the payloads, if known.
func (t *Atomic) Repr() reflect.Type {
	return t.repr
}

// IsObject reports whether the type can be built by an object construction.
func (t *Atomic) IsObject() bool {
	return t.construct != nil
}

// Properties returns the object schema. It is nil for non-object types.
func (t *Atomic) Properties() map[string]Type {
	return t.properties
}

// Construct builds an object payload from evaluated properties.
func (t *Atomic) Construct(props map[string]Value) any {
	return t.construct(props)
}

func (t *Atomic) Contains(other Type, u Universe) bool {
	return t.contains(other, u, newGuard())
}

func (t *Atomic) contains(other Type, _ Universe, _ *guard) bool {
	return t.Eq(other)
}

func (t *Atomic) Accepts(payload any, u Universe) bool {
	return t.accepts(payload, u, newGuard())
}

func (t *Atomic) accepts(payload any, _ Universe, _ *guard) bool {
	if t.predicate == nil {
		return false
	}
	return t.predicate(payload)
}

func (t *Atomic) Freshen(Fresh) Type {
	return t
}

func (t *Atomic) Eq(other Type) bool {
	o, ok := other.(*Atomic)
	return ok && o.id == t.id
}

func (t *Atomic) ID() uint64 {
	return t.id
}

func (t *Atomic) Describe(n *Namer) string {
	return n.Name(t)
}

func (t *Atomic) String() string {
	return t.Describe(NewNamer())
}

// Composite is implemented by the types built from a base and a list of
// parameters.
type Composite interface {
	Type
	Base() *Atomic
	Params() []Type
}

// Parameterised is a base type applied to an ordered list of parameters,
// like list<int>.
type Parameterised struct {
	id     uint64
	base   *Atomic
	params []Type
}

// NewParameterised applies base to params.
func NewParameterised(base *Atomic, params ...Type) *Parameterised {
	return &Parameterised{id: nextID(), base: base, params: params}
}

func (t *Parameterised) Base() *Atomic {
	return t.base
}

func (t *Parameterised) Params() []Type {
	return t.params
}

// With returns a copy with the parameter at i replaced.
func (t *Parameterised) With(i int, param Type) *Parameterised {
	params := make([]Type, len(t.params))
	copy(params, t.params)
	params[i] = param
	return NewParameterised(t.base, params...)
}

// WithAll returns a copy with every parameter replaced.
func (t *Parameterised) WithAll(params []Type) *Parameterised {
	if len(params) != len(t.params) {
		panic(StructuralInvariantViolation{
			Msg: fmt.Sprintf("%s expects %d parameters, got %d", t, len(t.params), len(params)),
		})
	}
	return NewParameterised(t.base, params...)
}

func (t *Parameterised) Contains(other Type, u Universe) bool {
	return t.contains(other, u, newGuard())
}

func (t *Parameterised) contains(other Type, u Universe, g *guard) bool {
	return compositeContains(t, other, u, g)
}

func (t *Parameterised) Accepts(payload any, u Universe) bool {
	return t.accepts(payload, u, newGuard())
}

// Parameters are only checked statically; a payload belongs to
// list<int> whenever it belongs to list.
func (t *Parameterised) accepts(payload any, u Universe, g *guard) bool {
	return t.base.accepts(payload, u, g)
}

func (t *Parameterised) Freshen(seen Fresh) Type {
	return NewParameterised(t.base, freshenAll(t.params, seen)...)
}

func (t *Parameterised) Eq(other Type) bool {
	return compositeEq(t, other)
}

func (t *Parameterised) ID() uint64 {
	return t.id
}

func (t *Parameterised) Describe(n *Namer) string {
	return describeComposite(t, n)
}

func (t *Parameterised) String() string {
	return t.Describe(NewNamer())
}

// Lambda is the type of a deferred expression. Parameter 0 is the result
// type; the rest are the input types. Extra names the variables a lambda
// body may additionally reference, derived from the type's parameters.
type Lambda struct {
	id     uint64
	base   *Atomic
	params []Type
	extra  func(*Lambda) map[string]Type
}

// NewLambda creates a lambda type over base with the given result and input
// types.
func NewLambda(base *Atomic, result Type, inputs []Type, extra func(*Lambda) map[string]Type) *Lambda {
	params := append([]Type{result}, inputs...)
	return &Lambda{id: nextID(), base: base, params: params, extra: extra}
}

func (t *Lambda) Base() *Atomic {
	return t.base
}

func (t *Lambda) Params() []Type {
	return t.params
}

// Result is the type the lambda body evaluates to.
func (t *Lambda) Result() Type {
	return t.params[0]
}

// Inputs are the parameters after the result.
func (t *Lambda) Inputs() []Type {
	return t.params[1:]
}

// ExtraBindings returns the variables visible to a body of this type.
func (t *Lambda) ExtraBindings() map[string]Type {
	if t.extra == nil {
		return map[string]Type{}
	}
	return t.extra(t)
}

// With returns a copy with the parameter at i replaced.
func (t *Lambda) With(i int, param Type) *Lambda {
	params := make([]Type, len(t.params))
	copy(params, t.params)
	params[i] = param
	return t.withParams(params)
}

// WithAll returns a copy with every parameter replaced.
func (t *Lambda) WithAll(params []Type) *Lambda {
	if len(params) != len(t.params) {
		panic(StructuralInvariantViolation{
			Msg: fmt.Sprintf("%s expects %d parameters, got %d", t, len(t.params), len(params)),
		})
	}
	return t.withParams(params)
}

func (t *Lambda) withParams(params []Type) *Lambda {
	return &Lambda{id: nextID(), base: t.base, params: params, extra: t.extra}
}

func (t *Lambda) Contains(other Type, u Universe) bool {
	return t.contains(other, u, newGuard())
}

func (t *Lambda) contains(other Type, u Universe, g *guard) bool {
	return compositeContains(t, other, u, g)
}

func (t *Lambda) Accepts(payload any, u Universe) bool {
	return t.accepts(payload, u, newGuard())
}

func (t *Lambda) accepts(payload any, u Universe, g *guard) bool {
	d, ok := payload.(Deferred)
	if !ok {
		return false
	}
	rt := d.ResultType()
	return rt != nil && t.Result().contains(rt, u, g)
}

func (t *Lambda) Freshen(seen Fresh) Type {
	return t.withParams(freshenAll(t.params, seen))
}

func (t *Lambda) Eq(other Type) bool {
	return compositeEq(t, other)
}

func (t *Lambda) ID() uint64 {
	return t.id
}

func (t *Lambda) Describe(n *Namer) string {
	return describeComposite(t, n)
}

func (t *Lambda) String() string {
	return t.Describe(NewNamer())
}

// Deferred is implemented by payloads that evaluate later, such as the
// thunks produced by lambda expressions.
type Deferred interface {
	ResultType() Type
}

func compositeEq(t Composite, other Type) bool {
	o, ok := other.(Composite)
	if !ok || !t.Base().Eq(o.Base()) || len(t.Params()) != len(o.Params()) {
		return false
	}
	for i, p := range t.Params() {
		if !p.Eq(o.Params()[i]) {
			return false
		}
	}
	return true
}

func compositeContains(t Composite, other Type, u Universe, g *guard) bool {
	if t.Eq(other) {
		return true
	}
	o, ok := other.(Composite)
	if !ok || !t.Base().Eq(o.Base()) || len(t.Params()) != len(o.Params()) {
		return false
	}
	for i, p := range t.Params() {
		if !p.contains(o.Params()[i], u, g) {
			return false
		}
	}
	return true
}

// WithParams rebuilds a composite type around new parameters, keeping its
// kind.
func WithParams(t Composite, params []Type) Composite {
	switch c := t.(type) {
	case *Parameterised:
		return c.WithAll(params)
	case *Lambda:
		return c.WithAll(params)
	default:
		panic(StructuralInvariantViolation{Msg: fmt.Sprintf("unknown composite type %T", t)})
	}
}

func freshenAll(ts []Type, seen Fresh) []Type {
	out := make([]Type, len(ts))
	for i, p := range ts {
		out[i] = p.Freshen(seen)
	}
	return out
}
