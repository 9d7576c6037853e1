package stdlib

import (
	"math"

	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

var (
	Add      = binaryOperator("add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	Subtract = binaryOperator("subtract", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	Multiply = binaryOperator("multiply", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	Divide   = binaryOperator("divide", func(a, b int64) int64 {
		if b == 0 {
			vamp.Raise("integer division by zero")
		}
		return a / b
	}, func(a, b float64) float64 { return a / b })
	Modulo = binaryOperator("modulo", func(a, b int64) int64 {
		if b == 0 {
			vamp.Raise("integer modulo by zero")
		}
		return a % b
	}, math.Mod)
	Power = binaryOperator("power", func(a, b int64) int64 {
		return int64(math.Pow(float64(a), float64(b)))
	}, math.Pow)
	Max = binaryOperator("max", func(a, b int64) int64 { return max(a, b) }, math.Max)
	Min = binaryOperator("min", func(a, b int64) int64 { return min(a, b) }, math.Min)

	Absolute = unaryOperator("absolute", func(a int64) int64 {
		if a < 0 {
			return -a
		}
		return a
	}, math.Abs)
	Negate = unaryOperator("negate", func(a int64) int64 { return -a }, func(a float64) float64 { return -a })

	SquareRoot = doubleOperator("square_root", math.Sqrt)
	Sine       = doubleOperator("sine", math.Sin)
	Cosine     = doubleOperator("cosine", math.Cos)
	Tangent    = doubleOperator("tangent", math.Tan)
	ToDouble   = doubleOperator("to_double", func(a float64) float64 { return a })
)

// Polynomial evaluates sum(coefficients[i] * input^i).
var Polynomial = vamp.NewFunction("polynomial",
	vtype.NewSignature(types{"coefficients": ListOf(Number), "input": Number}, Number),
	func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
		input := AsFloat(args.Get("input"))
		var result float64
		for i, c := range vtype.MustPayload[[]vtype.Value](args.Get("coefficients")) {
			result += AsFloat(c) * math.Pow(input, float64(i))
		}
		return number(sig.Output(), result)
	})

func binaryOperator(name string, ints func(a, b int64) int64, doubles func(a, b float64) float64) *vamp.FunctionDefinition {
	return vamp.NewFunction(name,
		vtype.NewSignature(types{"a": Number, "b": Number}, Number),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			a, b := args.Get("a"), args.Get("b")
			x, xok := a.Payload.(int64)
			y, yok := b.Payload.(int64)
			if xok && yok {
				return vtype.ValueOf(outputFor(sig, Int), ints(x, y))
			}
			return number(sig.Output(), doubles(AsFloat(a), AsFloat(b)))
		})
}

func unaryOperator(name string, ints func(int64) int64, doubles func(float64) float64) *vamp.FunctionDefinition {
	return vamp.NewFunction(name,
		vtype.NewSignature(types{"operand": Number}, Number),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			a := args.Get("operand")
			if x, ok := a.Payload.(int64); ok {
				return vtype.ValueOf(outputFor(sig, Int), ints(x))
			}
			return number(sig.Output(), doubles(AsFloat(a)))
		})
}

func doubleOperator(name string, op func(float64) float64) *vamp.FunctionDefinition {
	return vamp.NewFunction(name,
		vtype.NewSignature(types{"operand": Number}, Double),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			return vtype.ValueOf(sig.Output(), op(AsFloat(args.Get("operand"))))
		})
}

// outputFor returns the resolved output type, or fallback when the output
// is still a template.
func outputFor(sig *vtype.Signature, fallback vtype.Type) vtype.Type {
	if vtype.IsTemplate(sig.Output()) {
		return fallback
	}
	return sig.Output()
}

// number wraps f as a value of t, truncating when t is int.
func number(t vtype.Type, f float64) vamp.Value {
	if t.Eq(Int) {
		return vtype.ValueOf(t, int64(f))
	}
	if vtype.IsTemplate(t) {
		t = Double
	}
	return vtype.ValueOf(t, f)
}

// AsFloat reads an int or double value as a float64.
func AsFloat(v vamp.Value) float64 {
	f, ok := asFloat(v.Payload)
	if !ok {
		panic(vtype.StructuralInvariantViolation{Msg: "not a number: " + v.String()})
	}
	return f
}

func asFloat(p any) (float64, bool) {
	switch x := p.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
