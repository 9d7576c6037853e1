package vamp

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/williambl/vampilang/pkg/vtype"
)

// Literal is a constant value.
type Literal struct {
	value Value
}

var _ Expression = (*Literal)(nil)

// NewLiteral creates a literal expression.
func NewLiteral(v Value) *Literal {
	return &Literal{value: v}
}

func (e *Literal) expression() {}

// Value returns the literal's value.
func (e *Literal) Value() Value {
	return e.value
}

func (e *Literal) Resolve(*Environment, Spec) (Expression, error) {
	return e, nil
}

func (e *Literal) Evaluate(*Context) Value {
	return e.value
}

func (e *Literal) Type() vtype.Type {
	return e.value.Type
}

func (e *Literal) Resolved() bool {
	return true
}

func (e *Literal) Children() []Expression {
	return nil
}

func (e *Literal) Describe(n *vtype.Namer) string {
	return fmt.Sprintf("(value %v : %s)", e.value.Payload, describeType(e.value.Type, n))
}

func (e *Literal) String() string {
	return e.Describe(vtype.NewNamer())
}

// VariableRef reads a variable declared by the Spec.
type VariableRef struct {
	name string
	typ  vtype.Type
}

var _ Expression = (*VariableRef)(nil)

// NewVariableRef creates a reference to the named variable.
func NewVariableRef(name string) *VariableRef {
	return &VariableRef{name: name}
}

func (e *VariableRef) expression() {}

// Name returns the referenced variable's name.
func (e *VariableRef) Name() string {
	return e.name
}

func (e *VariableRef) Resolve(_ *Environment, spec Spec) (Expression, error) {
	t, ok := spec.TypeOf(e.name)
	if !ok {
		return nil, &ResolveErrors{Errors: []error{&MissingVariableError{Name: e.name}}}
	}
	return &VariableRef{name: e.name, typ: t}, nil
}

func (e *VariableRef) Evaluate(ctx *Context) Value {
	if e.typ == nil {
		panic(preconditionf("variable %q was never resolved", e.name))
	}
	return ctx.Variable(e.name, e.typ)
}

func (e *VariableRef) Type() vtype.Type {
	return e.typ
}

func (e *VariableRef) Resolved() bool {
	return e.typ != nil
}

func (e *VariableRef) Children() []Expression {
	return nil
}

func (e *VariableRef) Describe(n *vtype.Namer) string {
	return fmt.Sprintf("(variable %s : %s)", e.name, describeType(e.typ, n))
}

func (e *VariableRef) String() string {
	return e.Describe(vtype.NewNamer())
}

// FunctionApplication calls a function with named arguments.
type FunctionApplication struct {
	fn   *FunctionDefinition
	args map[string]Expression
	sig  *vtype.Signature
}

var _ Expression = (*FunctionApplication)(nil)

// NewFunctionApplication applies fn to the named arguments.
func NewFunctionApplication(fn *FunctionDefinition, args map[string]Expression) *FunctionApplication {
	return &FunctionApplication{fn: fn, args: maps.Clone(args)}
}

func (e *FunctionApplication) expression() {}

// Function returns the applied function.
func (e *FunctionApplication) Function() *FunctionDefinition {
	return e.fn
}

// Args returns the argument expressions.
func (e *FunctionApplication) Args() map[string]Expression {
	return maps.Clone(e.args)
}

// Signature returns the call-site signature, or nil if unresolved.
func (e *FunctionApplication) Signature() *vtype.Signature {
	return e.sig
}

func (e *FunctionApplication) Resolve(env *Environment, spec Spec) (Expression, error) {
	errs := &ResolveErrors{}
	args := make(map[string]Expression, len(e.args))
	actuals := make(map[string]vtype.Type, len(e.args))
	for _, name := range sortedKeys(e.args) {
		resolved, err := e.args[name].Resolve(env, spec)
		if err != nil {
			errs.Add(err)
			continue
		}
		args[name] = resolved
		actuals[name] = resolved.Type()
	}
	if errs.HasErrors() {
		return nil, errs
	}

	sig, err := e.fn.Signature.Freshen().Resolve(actuals, env)
	if err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, cause := range joined.Unwrap() {
				errs.Add(&FunctionError{Function: e.fn.Name, Err: cause})
			}
		} else {
			errs.Add(&FunctionError{Function: e.fn.Name, Err: err})
		}
		return nil, errs
	}
	slog.Debug("resolved application", "function", e.fn.Name, "signature", sig)
	return &FunctionApplication{fn: e.fn, args: args, sig: sig}, nil
}

func (e *FunctionApplication) Evaluate(ctx *Context) Value {
	if e.sig == nil {
		panic(preconditionf("application of %q was never resolved", e.fn.Name))
	}
	return e.fn.Impl(ctx, e.sig, newArgs(ctx, e.args))
}

func (e *FunctionApplication) Type() vtype.Type {
	if e.sig == nil {
		return nil
	}
	return e.sig.Output()
}

func (e *FunctionApplication) Resolved() bool {
	return e.sig != nil
}

func (e *FunctionApplication) Children() []Expression {
	return sortedValues(e.args)
}

func (e *FunctionApplication) Describe(n *vtype.Namer) string {
	var b strings.Builder
	b.WriteString("(function ")
	b.WriteString(e.fn.Name)
	b.WriteString(" ")
	for _, name := range sortedKeys(e.args) {
		fmt.Fprintf(&b, "%s = %s ", name, e.args[name].Describe(n))
	}
	sig := e.sig
	if sig == nil {
		sig = e.fn.Signature
	}
	b.WriteString(": ")
	b.WriteString(sig.Describe(n))
	b.WriteString(")")
	return b.String()
}

func (e *FunctionApplication) String() string {
	return e.Describe(vtype.NewNamer())
}

// ObjectConstruction builds a value of a registered object type from named
// properties.
type ObjectConstruction struct {
	typeName string
	props    map[string]Expression
	typ      *vtype.Atomic
}

var _ Expression = (*ObjectConstruction)(nil)

// NewObjectConstruction builds the named object type from props.
func NewObjectConstruction(typeName string, props map[string]Expression) *ObjectConstruction {
	return &ObjectConstruction{typeName: typeName, props: maps.Clone(props)}
}

func (e *ObjectConstruction) expression() {}

// TypeName returns the name of the constructed type.
func (e *ObjectConstruction) TypeName() string {
	return e.typeName
}

// Properties returns the property expressions.
func (e *ObjectConstruction) Properties() map[string]Expression {
	return maps.Clone(e.props)
}

func (e *ObjectConstruction) Resolve(env *Environment, spec Spec) (Expression, error) {
	errs := &ResolveErrors{}
	props := make(map[string]Expression, len(e.props))
	for _, name := range sortedKeys(e.props) {
		resolved, err := e.props[name].Resolve(env, spec)
		if err != nil {
			errs.Add(err)
			continue
		}
		props[name] = resolved
	}

	t, registered := env.Type(e.typeName)
	obj, ok := t.(*vtype.Atomic)
	if !ok || !obj.IsObject() {
		errs.Add(&NotConstructableError{TypeName: e.typeName, Registered: registered})
		return nil, errs
	}
	if errs.HasErrors() {
		return nil, errs
	}

	schema := obj.Properties()
	for _, name := range sortedKeys(schema) {
		declared := schema[name]
		p, ok := props[name]
		if !ok {
			errs.Add(&MissingPropertyError{TypeName: e.typeName, Property: name, Declared: declared})
			continue
		}
		if !declared.Contains(p.Type(), env) {
			errs.Add(&MissingPropertyError{TypeName: e.typeName, Property: name, Declared: declared, Actual: p.Type()})
		}
	}
	for _, name := range sortedKeys(props) {
		if _, ok := schema[name]; !ok {
			errs.Add(&UnexpectedPropertyError{TypeName: e.typeName, Property: name})
		}
	}
	if errs.HasErrors() {
		return nil, errs
	}
	slog.Debug("resolved object", "type", e.typeName)
	return &ObjectConstruction{typeName: e.typeName, props: props, typ: obj}, nil
}

func (e *ObjectConstruction) Evaluate(ctx *Context) Value {
	if e.typ == nil {
		panic(preconditionf("construction of %q was never resolved", e.typeName))
	}
	props := make(map[string]Value, len(e.props))
	for _, name := range sortedKeys(e.props) {
		props[name] = e.props[name].Evaluate(ctx)
	}
	return vtype.ValueOf(e.typ, e.typ.Construct(props))
}

func (e *ObjectConstruction) Type() vtype.Type {
	if e.typ == nil {
		return nil
	}
	return e.typ
}

func (e *ObjectConstruction) Resolved() bool {
	return e.typ != nil
}

func (e *ObjectConstruction) Children() []Expression {
	return sortedValues(e.props)
}

func (e *ObjectConstruction) Describe(n *vtype.Namer) string {
	var b strings.Builder
	b.WriteString("(object ")
	for _, name := range sortedKeys(e.props) {
		fmt.Fprintf(&b, "%s = %s ", name, e.props[name].Describe(n))
	}
	b.WriteString(": ")
	b.WriteString(e.typeName)
	b.WriteString(")")
	return b.String()
}

func (e *ObjectConstruction) String() string {
	return e.Describe(vtype.NewNamer())
}

// ListConstruction builds a list from its elements. The element type is
// inferred as the most specific registered type containing every element.
type ListConstruction struct {
	elems []Expression
	typ   *vtype.Parameterised
}

var _ Expression = (*ListConstruction)(nil)

// NewListConstruction creates a list of elems.
func NewListConstruction(elems ...Expression) *ListConstruction {
	return &ListConstruction{elems: elems}
}

// NewTypedList creates a list whose type is known up front. This is the
// only way to resolve an empty list.
func NewTypedList(t *vtype.Parameterised, elems ...Expression) *ListConstruction {
	return &ListConstruction{elems: elems, typ: t}
}

func (e *ListConstruction) expression() {}

// Elements returns the element expressions.
func (e *ListConstruction) Elements() []Expression {
	return slices.Clone(e.elems)
}

var errNoListType = errors.New("environment has no list type")

func (e *ListConstruction) Resolve(env *Environment, spec Spec) (Expression, error) {
	errs := &ResolveErrors{}
	elems := make([]Expression, 0, len(e.elems))
	for _, elem := range e.elems {
		resolved, err := elem.Resolve(env, spec)
		if err != nil {
			errs.Add(err)
			continue
		}
		elems = append(elems, resolved)
	}
	if errs.HasErrors() {
		return nil, errs
	}

	list := env.ListType()
	if list == nil {
		errs.Add(errNoListType)
		return nil, errs
	}
	if len(elems) == 0 {
		if e.typ != nil && e.typ.Base().Eq(list.Base()) {
			return &ListConstruction{typ: e.typ}, nil
		}
		errs.Add(&ListTypeError{})
		return nil, errs
	}

	elemTypes := make([]vtype.Type, len(elems))
	for i, elem := range elems {
		elemTypes[i] = elem.Type()
	}
	if e.typ != nil && e.typ.Base().Eq(list.Base()) && containsAll(e.typ.Params()[0], elemTypes, env) {
		return &ListConstruction{elems: elems, typ: e.typ}, nil
	}

	elemType, err := commonSupertype(elemTypes, env)
	if err != nil {
		errs.Add(err)
		return nil, errs
	}
	slog.Debug("resolved list", "elements", len(elems), "type", elemType)
	return &ListConstruction{elems: elems, typ: list.With(0, elemType)}, nil
}

// commonSupertype picks the most specific type containing every element
// type. Registered types are tried in registration order, then the element
// types themselves.
func commonSupertype(elemTypes []vtype.Type, env *Environment) (vtype.Type, error) {
	var candidates []vtype.Type
	for _, t := range append(env.AllTypes(), elemTypes...) {
		if slices.ContainsFunc(candidates, t.Eq) {
			continue
		}
		if containsAll(t, elemTypes, env) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil, &ListTypeError{Elements: elemTypes}
	}
	for _, c := range candidates {
		mostSpecific := true
		for _, other := range candidates {
			if !other.Contains(c, env) {
				mostSpecific = false
				break
			}
		}
		if mostSpecific {
			return c, nil
		}
	}
	return nil, &ListTypeError{Elements: elemTypes, Candidates: candidates}
}

func containsAll(t vtype.Type, ts []vtype.Type, env *Environment) bool {
	for _, o := range ts {
		if !t.Contains(o, env) {
			return false
		}
	}
	return true
}

func (e *ListConstruction) Evaluate(ctx *Context) Value {
	if e.typ == nil {
		panic(preconditionf("list construction was never resolved"))
	}
	values := make([]Value, len(e.elems))
	for i, elem := range e.elems {
		values[i] = elem.Evaluate(ctx)
	}
	return vtype.ValueOf(e.typ, values)
}

func (e *ListConstruction) Type() vtype.Type {
	if e.typ == nil {
		return nil
	}
	return e.typ
}

func (e *ListConstruction) Resolved() bool {
	if e.typ == nil {
		return false
	}
	for _, elem := range e.elems {
		if !elem.Resolved() {
			return false
		}
	}
	return true
}

func (e *ListConstruction) Children() []Expression {
	return slices.Clone(e.elems)
}

func (e *ListConstruction) Describe(n *vtype.Namer) string {
	var b strings.Builder
	b.WriteString("(list ")
	for _, elem := range e.elems {
		b.WriteString(elem.Describe(n))
		b.WriteString(" ")
	}
	b.WriteString(": ")
	b.WriteString(describeType(e.Type(), n))
	b.WriteString(")")
	return b.String()
}

func (e *ListConstruction) String() string {
	return e.Describe(vtype.NewNamer())
}

// Lambda defers its body. Evaluating it produces a Thunk for the consuming
// function to force.
type Lambda struct {
	typ  *vtype.Lambda
	body Expression
}

var _ Expression = (*Lambda)(nil)

// NewLambda wraps body as a deferred computation of type t.
func NewLambda(t *vtype.Lambda, body Expression) *Lambda {
	return &Lambda{typ: t, body: body}
}

func (e *Lambda) expression() {}

// Body returns the deferred expression.
func (e *Lambda) Body() Expression {
	return e.body
}

// LambdaType returns the lambda's type.
func (e *Lambda) LambdaType() *vtype.Lambda {
	return e.typ
}

func (e *Lambda) Resolve(env *Environment, spec Spec) (Expression, error) {
	body, err := e.body.Resolve(env, spec.Merge(e.typ.ExtraBindings()))
	if err != nil {
		return nil, err
	}
	if !e.typ.Result().Contains(body.Type(), env) {
		return nil, &ResolveErrors{Errors: []error{
			&LambdaResultError{Declared: e.typ.Result(), Actual: body.Type()},
		}}
	}
	return &Lambda{typ: e.typ, body: body}, nil
}

func (e *Lambda) Evaluate(*Context) Value {
	if !e.body.Resolved() {
		panic(preconditionf("lambda body was never resolved"))
	}
	return vtype.ValueOf(e.typ, &Thunk{Type: e.typ, Body: e.body})
}

func (e *Lambda) Type() vtype.Type {
	return e.typ
}

func (e *Lambda) Resolved() bool {
	return e.body.Resolved()
}

func (e *Lambda) Children() []Expression {
	return []Expression{e.body}
}

func (e *Lambda) Describe(n *vtype.Namer) string {
	return fmt.Sprintf("(lambda %s : %s)", e.body.Describe(n), e.typ.Describe(n))
}

func (e *Lambda) String() string {
	return e.Describe(vtype.NewNamer())
}

func describeType(t vtype.Type, n *vtype.Namer) string {
	if t == nil {
		return "?"
	}
	return t.Describe(n)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func sortedValues(m map[string]Expression) []Expression {
	out := make([]Expression, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}
