package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williambl/vampilang/pkg/stdlib"
	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

func lit(t vtype.Type, payload any) vamp.Expression {
	return vamp.NewLiteral(vtype.ValueOf(t, payload))
}

func i(n int64) vamp.Expression   { return lit(stdlib.Int, n) }
func d(f float64) vamp.Expression { return lit(stdlib.Double, f) }
func b(v bool) vamp.Expression    { return lit(stdlib.Boolean, v) }
func s(v string) vamp.Expression  { return lit(stdlib.String, v) }

func call(fn *vamp.FunctionDefinition, args map[string]vamp.Expression) vamp.Expression {
	return vamp.NewFunctionApplication(fn, args)
}

func binary(fn *vamp.FunctionDefinition, a, b vamp.Expression) vamp.Expression {
	return call(fn, map[string]vamp.Expression{"a": a, "b": b})
}

func unary(fn *vamp.FunctionDefinition, a vamp.Expression) vamp.Expression {
	return call(fn, map[string]vamp.Expression{"operand": a})
}

func eval(t *testing.T, env *vamp.Environment, expr vamp.Expression) vamp.Value {
	t.Helper()
	resolved, err := vamp.Resolve(expr, env, vamp.NewSpec(nil))
	require.NoError(t, err)
	ctx, err := vamp.NewBuilder(vamp.NewSpec(nil), env).Build()
	require.NoError(t, err)
	v, err := vamp.TryEvaluate(resolved, ctx)
	require.NoError(t, err)
	return v
}

func TestRegister(t *testing.T) {
	env := stdlib.NewEnvironment()
	assert.True(t, env.Frozen())

	for _, fn := range stdlib.Functions {
		got, ok := env.Function(fn.Name)
		require.True(t, ok, fn.Name)
		assert.Same(t, fn, got)
	}

	list, ok := env.Type("list")
	require.True(t, ok)
	assert.Same(t, stdlib.List, list)
	assert.Same(t, stdlib.List, env.ListType())
}

func TestArithmetic(t *testing.T) {
	env := stdlib.NewEnvironment()

	for _, tc := range []struct {
		name string
		expr vamp.Expression
		want any
		typ  vtype.Type
	}{
		{"add ints", binary(stdlib.Add, i(2), i(3)), int64(5), stdlib.Int},
		{"add doubles", binary(stdlib.Add, d(2.5), d(1)), 3.5, stdlib.Double},
		{"subtract", binary(stdlib.Subtract, i(2), i(3)), int64(-1), stdlib.Int},
		{"multiply", binary(stdlib.Multiply, d(1.5), d(2)), 3.0, stdlib.Double},
		{"integer divide", binary(stdlib.Divide, i(7), i(2)), int64(3), stdlib.Int},
		{"double divide", binary(stdlib.Divide, d(7), d(2)), 3.5, stdlib.Double},
		{"modulo", binary(stdlib.Modulo, i(7), i(4)), int64(3), stdlib.Int},
		{"power", binary(stdlib.Power, i(2), i(10)), int64(1024), stdlib.Int},
		{"max", binary(stdlib.Max, i(2), i(10)), int64(10), stdlib.Int},
		{"min", binary(stdlib.Min, d(2), d(10)), 2.0, stdlib.Double},
		{"absolute", unary(stdlib.Absolute, i(-4)), int64(4), stdlib.Int},
		{"negate", unary(stdlib.Negate, d(4)), -4.0, stdlib.Double},
		{"square root", unary(stdlib.SquareRoot, i(16)), 4.0, stdlib.Double},
		{"sine", unary(stdlib.Sine, d(0)), 0.0, stdlib.Double},
		{"cosine", unary(stdlib.Cosine, i(0)), 1.0, stdlib.Double},
		{"to double", unary(stdlib.ToDouble, i(3)), 3.0, stdlib.Double},
		{"polynomial", call(stdlib.Polynomial, map[string]vamp.Expression{
			"coefficients": vamp.NewListConstruction(i(1), i(2), i(3)),
			"input":        i(2),
		}), int64(17), stdlib.Int},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := eval(t, env, tc.expr)
			assert.Equal(t, tc.want, v.Payload)
			assert.True(t, v.Type.Eq(tc.typ), "got %s", v.Type)
		})
	}
}

func TestMixedArithmeticConflicts(t *testing.T) {
	env := stdlib.NewEnvironment()
	_, err := vamp.Resolve(binary(stdlib.Add, i(1), d(2)), env, vamp.NewSpec(nil))
	var conflict *vtype.TypeConflictError
	require.ErrorAs(t, err, &conflict)

	v := eval(t, env, binary(stdlib.Add, unary(stdlib.ToDouble, i(1)), d(2)))
	assert.Equal(t, 3.0, v.Payload)
}

func TestDivisionByZero(t *testing.T) {
	env := stdlib.NewEnvironment()
	for _, fn := range []*vamp.FunctionDefinition{stdlib.Divide, stdlib.Modulo} {
		resolved, err := vamp.Resolve(binary(fn, i(1), i(0)), env, vamp.NewSpec(nil))
		require.NoError(t, err)
		ctx, err := vamp.NewBuilder(vamp.NewSpec(nil), env).Build()
		require.NoError(t, err)

		_, err = vamp.TryEvaluate(resolved, ctx)
		var rt *vamp.RuntimeError
		require.ErrorAs(t, err, &rt, fn.Name)
	}
}

func TestComparisons(t *testing.T) {
	env := stdlib.NewEnvironment()

	for _, tc := range []struct {
		name string
		expr vamp.Expression
		want bool
	}{
		{"ints equal", binary(stdlib.Equals, i(1), i(1)), true},
		{"int equals double", binary(stdlib.Equals, i(1), d(1)), true},
		{"strings differ", binary(stdlib.NotEquals, s("a"), s("b")), true},
		{"lists equal", binary(stdlib.Equals,
			vamp.NewListConstruction(i(1), i(2)),
			vamp.NewListConstruction(i(1), i(2))), true},
		{"less than mixed", binary(stdlib.LessThan, i(1), d(2.5)), true},
		{"greater than", binary(stdlib.GreaterThan, i(1), i(2)), false},
		{"less or equal", binary(stdlib.LessThanOrEqual, d(2), i(2)), true},
		{"greater or equal", binary(stdlib.GreaterThanOrEqual, i(1), i(2)), false},
		{"and", call(stdlib.And, map[string]vamp.Expression{
			"operands": vamp.NewListConstruction(b(true), b(false)),
		}), false},
		{"or", call(stdlib.Or, map[string]vamp.Expression{
			"operands": vamp.NewListConstruction(b(false), b(true)),
		}), true},
		{"not", unary(stdlib.Not, b(true)), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := eval(t, env, tc.expr)
			assert.Equal(t, tc.want, v.Payload)
			assert.True(t, v.Type.Eq(stdlib.Boolean))
		})
	}
}

func TestMatch(t *testing.T) {
	env := stdlib.NewEnvironment()
	caseType := stdlib.MatchCase.WithAll([]vtype.Type{stdlib.Int, stdlib.String})
	cases := vamp.NewListConstruction(
		lit(caseType, stdlib.Case{When: int64(1), Then: "one"}),
		lit(caseType, stdlib.Case{When: int64(2), Then: "two"}),
	)

	for input, want := range map[int64]string{1: "one", 2: "two", 3: "other"} {
		v := eval(t, env, call(stdlib.Match, map[string]vamp.Expression{
			"input":   i(input),
			"cases":   cases,
			"default": s("other"),
		}))
		assert.Equal(t, want, v.Payload)
		assert.True(t, v.Type.Eq(stdlib.String))
	}
}

func TestOptionals(t *testing.T) {
	env := stdlib.NewEnvironment()
	optInt := stdlib.OptionalOf(stdlib.Int)
	mapping := vamp.NewLambda(stdlib.MappingOf(stdlib.Int, stdlib.Int),
		binary(stdlib.Add, vamp.NewVariableRef(stdlib.UnwrappedOptional), i(1)))

	t.Run("map present", func(t *testing.T) {
		v := eval(t, env, call(stdlib.MapOptional, map[string]vamp.Expression{
			"optional": lit(optInt, stdlib.Some(int64(3))),
			"mapping":  mapping,
		}))
		assert.Equal(t, stdlib.Some(int64(4)), v.Payload)
		assert.True(t, v.Type.Eq(optInt))
	})

	t.Run("map absent", func(t *testing.T) {
		v := eval(t, env, call(stdlib.MapOptional, map[string]vamp.Expression{
			"optional": lit(optInt, stdlib.None()),
			"mapping":  mapping,
		}))
		assert.Equal(t, stdlib.None(), v.Payload)
	})

	t.Run("unwrap with fallback", func(t *testing.T) {
		v := eval(t, env, call(stdlib.UnwrapOptional, map[string]vamp.Expression{
			"optional": lit(optInt, stdlib.None()),
			"fallback": i(7),
		}))
		assert.Equal(t, int64(7), v.Payload)
		assert.True(t, v.Type.Eq(stdlib.Int))
	})
}

func TestHead(t *testing.T) {
	env := stdlib.NewEnvironment()

	v := eval(t, env, call(stdlib.Head, map[string]vamp.Expression{
		"list":     vamp.NewListConstruction(s("x"), s("y")),
		"fallback": s("none"),
	}))
	assert.Equal(t, "x", v.Payload)

	v = eval(t, env, call(stdlib.Head, map[string]vamp.Expression{
		"list":     vamp.NewTypedList(stdlib.ListOf(stdlib.String)),
		"fallback": s("none"),
	}))
	assert.Equal(t, "none", v.Payload)
}

func TestIfElse(t *testing.T) {
	env := stdlib.NewEnvironment()
	v := eval(t, env, call(stdlib.IfElse, map[string]vamp.Expression{
		"predicate": binary(stdlib.LessThan, i(1), i(2)),
		"a":         s("yes"),
		"b":         s("no"),
	}))
	assert.Equal(t, "yes", v.Payload)
}
