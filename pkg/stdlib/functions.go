package stdlib

import (
	"reflect"

	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

type types = map[string]vtype.Type

var IfElse = vamp.NewFunction("if-else",
	vtype.NewSignature(types{"predicate": Boolean, "a": Any, "b": Any}, Any),
	func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
		if vtype.MustPayload[bool](args.Get("predicate")) {
			return args.Get("a")
		}
		return args.Get("b")
	})

var Match = func() *vamp.FunctionDefinition {
	on, result := vtype.NewTopTemplate(), vtype.NewTopTemplate()
	return vamp.NewFunction("match",
		vtype.NewSignature(types{
			"input":   on,
			"cases":   ListOf(MatchCase.WithAll([]vtype.Type{on, result})),
			"default": result,
		}, result),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			input := args.Get("input").Payload
			for _, c := range vtype.MustPayload[[]vtype.Value](args.Get("cases")) {
				kase := vtype.MustPayload[Case](c)
				if equalPayloads(kase.When, input) {
					return vtype.ValueOf(sig.Output(), kase.Then)
				}
			}
			return vtype.ValueOf(sig.Output(), args.Get("default").Payload)
		})
}()

var (
	Equals    = comparison("==", equalPayloads)
	NotEquals = comparison("!=", func(a, b any) bool { return !equalPayloads(a, b) })

	LessThan           = numberComparison("<", func(a, b float64) bool { return a < b })
	GreaterThan        = numberComparison(">", func(a, b float64) bool { return a > b })
	LessThanOrEqual    = numberComparison("<=", func(a, b float64) bool { return a <= b })
	GreaterThanOrEqual = numberComparison(">=", func(a, b float64) bool { return a >= b })
)

func comparison(name string, pred func(a, b any) bool) *vamp.FunctionDefinition {
	return vamp.NewFunction(name,
		vtype.NewSignature(types{"a": vtype.NewTopTemplate(), "b": Any}, Boolean),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			return vtype.ValueOf(sig.Output(), pred(args.Get("a").Payload, args.Get("b").Payload))
		})
}

func numberComparison(name string, pred func(a, b float64) bool) *vamp.FunctionDefinition {
	return vamp.NewFunction(name,
		vtype.NewSignature(types{"a": Number, "b": vtype.NewTemplate(Int, Double)}, Boolean),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			return vtype.ValueOf(sig.Output(), pred(AsFloat(args.Get("a")), AsFloat(args.Get("b"))))
		})
}

var MapOptional = func() *vamp.FunctionDefinition {
	in, out := vtype.NewTopTemplate(), vtype.NewTopTemplate()
	return vamp.NewFunction("map_optional",
		vtype.NewSignature(types{
			"optional": OptionalOf(in),
			"mapping":  MappingOf(in, out),
		}, OptionalOf(out)),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			opt := vtype.MustPayload[OptionalValue](args.Get("optional"))
			if !opt.Present {
				return vtype.ValueOf(sig.Output(), None())
			}
			declared, _ := sig.Input("optional")
			elem := declared.(*vtype.Parameterised).Params()[0]
			thunk := vtype.MustPayload[*vamp.Thunk](args.Get("mapping"))
			res := thunk.Force(ctx, map[string]vamp.Value{
				UnwrappedOptional: vtype.ValueOf(elem, opt.Value),
			})
			return vtype.ValueOf(sig.Output(), Some(res.Payload))
		})
}()

var UnwrapOptional = func() *vamp.FunctionDefinition {
	elem := vtype.NewTopTemplate()
	return vamp.NewFunction("unwrap_optional",
		vtype.NewSignature(types{"optional": OptionalOf(elem), "fallback": elem}, elem),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			opt := vtype.MustPayload[OptionalValue](args.Get("optional"))
			if opt.Present {
				return vtype.ValueOf(sig.Output(), opt.Value)
			}
			return args.Get("fallback")
		})
}()

var Head = func() *vamp.FunctionDefinition {
	elem := vtype.NewTopTemplate()
	return vamp.NewFunction("head",
		vtype.NewSignature(types{"list": ListOf(elem), "fallback": elem}, elem),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			elems := vtype.MustPayload[[]vtype.Value](args.Get("list"))
			if len(elems) == 0 {
				return args.Get("fallback")
			}
			return elems[0]
		})
}()

// equalPayloads compares payloads by value. Numbers compare numerically
// across int and double.
func equalPayloads(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case []vtype.Value:
		y, ok := b.([]vtype.Value)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalPayloads(x[i].Payload, y[i].Payload) {
				return false
			}
		}
		return true
	case OptionalValue:
		y, ok := b.(OptionalValue)
		return ok && x.Present == y.Present && (!x.Present || equalPayloads(x.Value, y.Value))
	case Case:
		y, ok := b.(Case)
		return ok && equalPayloads(x.When, y.When) && equalPayloads(x.Then, y.Then)
	}
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
