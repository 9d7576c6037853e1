package vamp_test

import (
	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

type optional struct {
	value   any
	present bool
}

type point struct {
	X, Y any
}

// world is a small vocabulary of numbers, optionals and points.
type world struct {
	Env *vamp.Environment

	Int, Double, Bool, Str *vtype.Atomic
	Number                 *vtype.FixedTemplate
	Any                    *vtype.TopTemplate
	List, Optional         *vtype.Parameterised
	Mapping                *vtype.Lambda
	Point                  *vtype.Atomic

	Add, IfElse, Head, MapOptional *vamp.FunctionDefinition
}

func newWorld() *world {
	w := &world{Env: vamp.NewEnvironment()}
	w.Int = vtype.NewTyped[int64]()
	w.Double = vtype.NewTyped[float64]()
	w.Bool = vtype.NewTyped[bool]()
	w.Str = vtype.NewTyped[string]()
	w.Number = vtype.NewTemplate(w.Int, w.Double)
	w.Any = vtype.NewTopTemplate()
	w.List = vtype.NewParameterised(vtype.NewTyped[[]vtype.Value](), w.Any)
	w.Optional = vtype.NewParameterised(vtype.NewTyped[optional](), w.Any)
	w.Mapping = vtype.NewLambda(vtype.NewAtomic(nil), w.Any, []vtype.Type{w.Any}, func(fn *vtype.Lambda) map[string]vtype.Type {
		return map[string]vtype.Type{"unwrapped_optional": fn.Inputs()[0]}
	})
	w.Point = vtype.NewObject(map[string]vtype.Type{"x": w.Number, "y": w.Number}, func(props map[string]vtype.Value) point {
		return point{props["x"].Payload, props["y"].Payload}
	})

	w.Env.RegisterType("int", w.Int)
	w.Env.RegisterType("double", w.Double)
	w.Env.RegisterType("number", w.Number)
	w.Env.RegisterType("boolean", w.Bool)
	w.Env.RegisterType("string", w.Str)
	w.Env.RegisterType("any", w.Any)
	w.Env.RegisterListType("list", w.List)
	w.Env.RegisterType("optional", w.Optional)
	w.Env.RegisterType("mapping", w.Mapping)
	w.Env.RegisterType("point", w.Point)

	w.Add = vamp.NewFunction("add",
		vtype.NewSignature(map[string]vtype.Type{"a": w.Number, "b": w.Number}, w.Number),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			a, b := args.Get("a").Payload, args.Get("b").Payload
			switch x := a.(type) {
			case int64:
				return vtype.ValueOf(sig.Output(), x+b.(int64))
			default:
				return vtype.ValueOf(sig.Output(), x.(float64)+b.(float64))
			}
		})
	w.IfElse = vamp.NewFunction("if-else",
		vtype.NewSignature(map[string]vtype.Type{"predicate": w.Bool, "a": w.Any, "b": w.Any}, w.Any),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			if args.Get("predicate").Payload.(bool) {
				return args.Get("a")
			}
			return args.Get("b")
		})
	w.Head = vamp.NewFunction("head",
		vtype.NewSignature(map[string]vtype.Type{"list": w.List, "fallback": w.Any}, w.Any),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			elems := args.Get("list").Payload.([]vtype.Value)
			if len(elems) == 0 {
				return args.Get("fallback")
			}
			return elems[0]
		})

	in, out := vtype.NewTopTemplate(), vtype.NewTopTemplate()
	w.MapOptional = vamp.NewFunction("map_optional",
		vtype.NewSignature(map[string]vtype.Type{
			"optional": w.Optional.With(0, in),
			"mapping":  w.Mapping.WithAll([]vtype.Type{out, in}),
		}, w.Optional.With(0, out)),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			opt := args.Get("optional").Payload.(optional)
			if !opt.present {
				return vtype.ValueOf(sig.Output(), optional{})
			}
			declared, _ := sig.Input("optional")
			unwrapped := vtype.ValueOf(declared.(*vtype.Parameterised).Params()[0], opt.value)
			thunk := args.Get("mapping").Payload.(*vamp.Thunk)
			res := thunk.Force(ctx, map[string]vamp.Value{"unwrapped_optional": unwrapped})
			return vtype.ValueOf(sig.Output(), optional{value: res.Payload, present: true})
		})

	for _, fn := range []*vamp.FunctionDefinition{w.Add, w.IfElse, w.Head, w.MapOptional} {
		w.Env.RegisterFunction(fn)
	}
	w.Env.Freeze()
	return w
}

func (w *world) int(n int64) vamp.Expression {
	return vamp.NewLiteral(vtype.ValueOf(w.Int, n))
}

func (w *world) double(f float64) vamp.Expression {
	return vamp.NewLiteral(vtype.ValueOf(w.Double, f))
}

func (w *world) bool(b bool) vamp.Expression {
	return vamp.NewLiteral(vtype.ValueOf(w.Bool, b))
}

func (w *world) add(a, b vamp.Expression) *vamp.FunctionApplication {
	return vamp.NewFunctionApplication(w.Add, map[string]vamp.Expression{"a": a, "b": b})
}

func (w *world) ifElse(pred, a, b vamp.Expression) *vamp.FunctionApplication {
	return vamp.NewFunctionApplication(w.IfElse, map[string]vamp.Expression{"predicate": pred, "a": a, "b": b})
}

func (w *world) scenarioA() vamp.Expression {
	return w.ifElse(w.bool(true), w.add(w.int(5), w.int(10)), w.int(25))
}

func (w *world) scenarioB() (vamp.Expression, vamp.Spec) {
	expr := vamp.NewFunctionApplication(w.Head, map[string]vamp.Expression{
		"list":     vamp.NewListConstruction(vamp.NewVariableRef("variable"), w.int(2)),
		"fallback": w.int(0),
	})
	return expr, vamp.NewSpec(map[string]vtype.Type{"variable": w.Int})
}

func (w *world) scenarioC() vamp.Expression {
	return vamp.NewObjectConstruction("point", map[string]vamp.Expression{
		"x": w.int(3),
		"y": w.int(50),
	})
}

func (w *world) scenarioD() (vamp.Expression, vamp.Spec) {
	expr := vamp.NewFunctionApplication(w.MapOptional, map[string]vamp.Expression{
		"optional": vamp.NewVariableRef("opt"),
		"mapping": vamp.NewLambda(w.Mapping.WithAll([]vtype.Type{w.Int, w.Int}),
			w.add(vamp.NewVariableRef("unwrapped_optional"), vamp.NewVariableRef("free"))),
	})
	return expr, vamp.NewSpec(map[string]vtype.Type{
		"opt":  w.Optional.With(0, w.Int),
		"free": w.Int,
	})
}
