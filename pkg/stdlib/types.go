package stdlib

import (
	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

// OptionalValue is the payload of optional types.
type OptionalValue struct {
	Value   any
	Present bool
}

// Some wraps a present value.
func Some(v any) OptionalValue {
	return OptionalValue{Value: v, Present: true}
}

// None is the absent optional.
func None() OptionalValue {
	return OptionalValue{}
}

// Case is the payload of match_case types.
type Case struct {
	When any
	Then any
}

// UnwrappedOptional is the variable an optional mapping's body reads the
// present value from.
const UnwrappedOptional = "unwrapped_optional"

var (
	Int     = vtype.NewTyped[int64]()
	Double  = vtype.NewTyped[float64]()
	Number  = vtype.NewTemplate(Int, Double)
	Boolean = vtype.NewTyped[bool]()
	String  = vtype.NewTyped[string]()
	Any     = vtype.NewTopTemplate()

	List      = vtype.NewParameterised(vtype.NewTyped[[]vtype.Value](), Any)
	Optional  = vtype.NewParameterised(vtype.NewTyped[OptionalValue](), Any)
	MatchCase = vtype.NewParameterised(vtype.NewTyped[Case](), Any, vtype.NewTopTemplate())

	// OptionalMapping is the type of lambdas passed to map_optional. Its
	// input is bound to UnwrappedOptional.
	OptionalMapping = vtype.NewLambda(vtype.NewAtomic(nil), vtype.NewTopTemplate(), []vtype.Type{vtype.NewTopTemplate()},
		func(fn *vtype.Lambda) map[string]vtype.Type {
			return map[string]vtype.Type{UnwrappedOptional: fn.Inputs()[0]}
		})
)

// ListOf is the list type with elements of t.
func ListOf(t vtype.Type) *vtype.Parameterised {
	return List.With(0, t)
}

// OptionalOf is the optional type wrapping t.
func OptionalOf(t vtype.Type) *vtype.Parameterised {
	return Optional.With(0, t)
}

// MappingOf is the optional mapping type from in to out.
func MappingOf(in, out vtype.Type) *vtype.Lambda {
	return OptionalMapping.WithAll([]vtype.Type{out, in})
}

// RegisterTypes registers the standard types with env.
func RegisterTypes(env *vamp.Environment) {
	env.RegisterType("int", Int)
	env.RegisterType("double", Double)
	env.RegisterType("number", Number)
	env.RegisterType("boolean", Boolean)
	env.RegisterType("string", String)
	env.RegisterType("any", Any)
	env.RegisterListType("list", List)
	env.RegisterType("optional", Optional)
	env.RegisterType("match_case", MatchCase)
	env.RegisterType("optional_mapping", OptionalMapping)
}
