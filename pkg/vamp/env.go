package vamp

import (
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"github.com/williambl/vampilang/pkg/vtype"
)

// ErrFrozen is raised when registering into an Environment after Freeze.
var ErrFrozen = errors.New("environment is frozen")

// Environment is the registry of named types and functions that programs
// are resolved and evaluated against.
//
// An Environment is populated during a registration phase and then frozen.
// A frozen Environment is read-only and may be shared between goroutines.
type Environment struct {
	types     map[string]vtype.Type
	order     []string
	functions map[string]*FunctionDefinition
	listType  *vtype.Parameterised
	frozen    bool
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{
		types:     map[string]vtype.Type{},
		functions: map[string]*FunctionDefinition{},
	}
}

func (env *Environment) checkMutable(what, name string) {
	if env.frozen {
		panic(errors.Wrapf(ErrFrozen, "register %s %q", what, name))
	}
}

// RegisterType names a type. Re-registering a name replaces the type but
// keeps its original position.
func (env *Environment) RegisterType(name string, t vtype.Type) {
	env.checkMutable("type", name)
	if _, exists := env.types[name]; !exists {
		env.order = append(env.order, name)
	}
	env.types[name] = t
	slog.Debug("registered type", "name", name, "type", t)
}

// RegisterListType registers the generic list type, whose single parameter
// is the element type. List constructions produce instances of it.
func (env *Environment) RegisterListType(name string, list *vtype.Parameterised) {
	if len(list.Params()) != 1 {
		panic(errors.Errorf("list type %q must have exactly one parameter, has %d", name, len(list.Params())))
	}
	env.RegisterType(name, list)
	env.listType = list
}

// RegisterFunction registers a function under its name.
func (env *Environment) RegisterFunction(fn *FunctionDefinition) {
	env.checkMutable("function", fn.Name)
	env.functions[fn.Name] = fn
	slog.Debug("registered function", "function", fn.Name, "signature", fn.Signature)
}

// Freeze ends the registration phase.
func (env *Environment) Freeze() *Environment {
	env.frozen = true
	return env
}

// Frozen reports whether Freeze has been called.
func (env *Environment) Frozen() bool {
	return env.frozen
}

// Type looks up a registered type by name.
func (env *Environment) Type(name string) (vtype.Type, bool) {
	t, ok := env.types[name]
	return t, ok
}

// Function looks up a registered function by name.
func (env *Environment) Function(name string) (*FunctionDefinition, bool) {
	fn, ok := env.functions[name]
	return fn, ok
}

// ListType returns the generic list type, or nil if none is registered.
func (env *Environment) ListType() *vtype.Parameterised {
	return env.listType
}

// AllTypes returns the registered types in registration order.
func (env *Environment) AllTypes() []vtype.Type {
	if env == nil {
		return nil
	}
	out := make([]vtype.Type, 0, len(env.order))
	for _, name := range env.order {
		out = append(out, env.types[name])
	}
	return out
}

// Types iterates over the registered types in registration order.
func (env *Environment) Types() iter.Seq2[string, vtype.Type] {
	return func(yield func(string, vtype.Type) bool) {
		for _, name := range env.order {
			if !yield(name, env.types[name]) {
				return
			}
		}
	}
}

// Functions returns the registered functions sorted by name.
func (env *Environment) Functions() []*FunctionDefinition {
	out := make([]*FunctionDefinition, 0, len(env.functions))
	for _, name := range slices.Sorted(maps.Keys(env.functions)) {
		out = append(out, env.functions[name])
	}
	return out
}

// Namer returns a new namer that knows every registered type name.
func (env *Environment) Namer() *vtype.Namer {
	n := vtype.NewNamer()
	for name, t := range env.Types() {
		n.Register(t, name)
	}
	return n
}
