package vamp

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/williambl/vampilang/pkg/vtype"
)

// Value is a runtime value.
type Value = vtype.Value

// Spec declares the free variables an expression may reference and their
// types. Specs are immutable.
type Spec struct {
	vars map[string]vtype.Type
}

// NewSpec creates a Spec from a name to type map.
func NewSpec(vars map[string]vtype.Type) Spec {
	return Spec{vars: maps.Clone(vars)}
}

// TypeOf returns the declared type of a variable.
func (s Spec) TypeOf(name string) (vtype.Type, bool) {
	t, ok := s.vars[name]
	return t, ok
}

// Names returns the declared names in sorted order.
func (s Spec) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// Merge returns a Spec with the declarations of both. Declarations in other
// take precedence.
func (s Spec) Merge(other map[string]vtype.Type) Spec {
	vars := make(map[string]vtype.Type, len(s.vars)+len(other))
	maps.Copy(vars, s.vars)
	maps.Copy(vars, other)
	return Spec{vars: vars}
}

// Context holds the variable bindings an expression is evaluated against.
// Contexts are immutable; With returns an extended copy.
type Context struct {
	env  *Environment
	vars map[string]Value
}

// Env returns the Environment the Context was built for.
func (c *Context) Env() *Environment {
	return c.env
}

// Lookup returns the value bound to name.
func (c *Context) Lookup(name string) (Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Variable returns the value bound to name, which must be of a type
// contained by t. Anything else is a precondition violation.
func (c *Context) Variable(name string, t vtype.Type) Value {
	v, ok := c.vars[name]
	if !ok {
		panic(preconditionf("variable %q is not bound", name))
	}
	if !t.Contains(v.Type, c.env) {
		panic(preconditionf("variable %q is bound to %s, expected %s", name, v.Type, t))
	}
	return v
}

// With returns a Context that additionally binds name.
func (c *Context) With(name string, v Value) *Context {
	return c.WithAll(map[string]Value{name: v})
}

// WithAll returns a Context that additionally binds every entry of vars.
func (c *Context) WithAll(vars map[string]Value) *Context {
	next := make(map[string]Value, len(c.vars)+len(vars))
	maps.Copy(next, c.vars)
	maps.Copy(next, vars)
	return &Context{env: c.env, vars: next}
}

// Builder assembles a Context that satisfies a Spec.
type Builder struct {
	spec Spec
	env  *Environment
	vars map[string]Value
}

// NewBuilder starts building a Context for spec.
func NewBuilder(spec Spec, env *Environment) *Builder {
	return &Builder{spec: spec, env: env, vars: map[string]Value{}}
}

// Set binds name to v.
func (b *Builder) Set(name string, v Value) *Builder {
	b.vars[name] = v
	return b
}

// Build checks that every variable the Spec declares is bound at a type
// the declaration contains.
func (b *Builder) Build() (*Context, error) {
	errs := &ResolveErrors{}
	for _, name := range b.spec.Names() {
		declared, _ := b.spec.TypeOf(name)
		v, ok := b.vars[name]
		switch {
		case !ok:
			errs.Add(&MissingVariableError{Name: name, Declared: declared})
		case !declared.Contains(v.Type, b.env):
			errs.Add(&MissingVariableError{Name: name, Declared: declared, Actual: v.Type})
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	for name := range b.vars {
		if _, declared := b.spec.TypeOf(name); !declared {
			slog.Debug("binding undeclared variable", "name", name)
		}
	}
	return &Context{env: b.env, vars: maps.Clone(b.vars)}, nil
}
