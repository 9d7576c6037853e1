package vtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshenSignature(t *testing.T) {
	l := newLattice()
	list := NewParameterised(l.ListBase, l.Any)
	sig := NewSignature(map[string]Type{"list": list, "fallback": l.Any}, l.Any)

	fresh := sig.Freshen()
	fallback, _ := fresh.Input("fallback")
	elems, _ := fresh.Input("list")

	require.IsType(t, &TopTemplate{}, fallback)
	assert.False(t, fallback.Eq(l.Any), "templates are replaced")
	assert.True(t, elems.(*Parameterised).Params()[0].Eq(fallback), "one template maps to one fresh template")
	assert.True(t, fresh.Output().Eq(fallback))

	original, _ := sig.Input("fallback")
	assert.True(t, original.Eq(l.Any), "the static signature is untouched")
}

func TestResolveSingleTemplate(t *testing.T) {
	l := newLattice()
	list := NewParameterised(l.ListBase, l.Any)
	sig := NewSignature(map[string]Type{"list": list, "fallback": l.Any}, l.Any).Freshen()

	resolved, err := sig.Resolve(map[string]Type{
		"list":     NewParameterised(l.ListBase, l.Int),
		"fallback": l.Int,
	}, l.U)
	require.NoError(t, err)

	assert.True(t, resolved.Output().Eq(l.Int))
	fallback, _ := resolved.Input("fallback")
	assert.True(t, fallback.Eq(l.Int))
	elems, _ := resolved.Input("list")
	assert.True(t, elems.Eq(NewParameterised(l.ListBase, l.Int)))
}

func TestResolvePicksWidestObservation(t *testing.T) {
	l := newLattice()
	sig := NewSignature(map[string]Type{"a": l.Any, "b": l.Any}, l.Any).Freshen()

	resolved, err := sig.Resolve(map[string]Type{"a": l.Int, "b": l.Number}, l.U)
	require.NoError(t, err)
	assert.True(t, resolved.Output().Eq(l.Number))
}

func TestResolveBindsEquivalentTemplate(t *testing.T) {
	l := newLattice()
	sig := NewSignature(map[string]Type{"a": l.Number}, l.Number).Freshen()

	resolved, err := sig.Resolve(map[string]Type{"a": l.Number}, l.U)
	require.NoError(t, err)
	assert.True(t, resolved.Output().Eq(l.Number), "the fresh template is bound to the registered one")
}

func TestResolveConflict(t *testing.T) {
	l := newLattice()
	sig := NewSignature(map[string]Type{"a": l.Any, "b": l.Any}, l.Any).Freshen()

	_, err := sig.Resolve(map[string]Type{"a": l.Int, "b": l.Bool}, l.U)
	require.Error(t, err)

	var conflict *TypeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, conflict.Types, 2)
	assert.Contains(t, conflict.Describe(l.Names), "int, boolean")
}

func TestResolveReportsEveryProblem(t *testing.T) {
	l := newLattice()
	sig := NewSignature(map[string]Type{
		"a": l.Number,
		"b": l.Number,
		"c": l.Bool,
	}, l.Bool)

	_, err := sig.Resolve(map[string]Type{
		"a":     l.Bool,
		"c":     l.Bool,
		"extra": l.Int,
	}, l.U)
	require.Error(t, err)

	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "a", mismatch.Param)

	var missing *MissingArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "b", missing.Param)

	var unexpected *UnexpectedArgumentError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, "extra", unexpected.Param)
}

func TestCallSitesDoNotShareBindings(t *testing.T) {
	l := newLattice()
	add := NewSignature(map[string]Type{"a": l.Number, "b": l.Number}, l.Number)

	ints, err := add.Freshen().Resolve(map[string]Type{"a": l.Int, "b": l.Int}, l.U)
	require.NoError(t, err)
	doubles, err := add.Freshen().Resolve(map[string]Type{"a": l.Double, "b": l.Double}, l.U)
	require.NoError(t, err)

	assert.True(t, ints.Output().Eq(l.Int))
	assert.True(t, doubles.Output().Eq(l.Double))
	assert.True(t, add.Output().Eq(l.Number))
}

func TestResolveLambdaParameters(t *testing.T) {
	l := newLattice()
	optBase := NewAtomic(nil)
	fnBase := NewAtomic(nil)
	in, out := NewTopTemplate(), NewTopTemplate()
	mapping := NewLambda(fnBase, out, []Type{in}, nil)
	sig := NewSignature(map[string]Type{
		"optional": NewParameterised(optBase, in),
		"mapping":  mapping,
	}, NewParameterised(optBase, out)).Freshen()

	resolved, err := sig.Resolve(map[string]Type{
		"optional": NewParameterised(optBase, l.Int),
		"mapping":  mapping.WithAll([]Type{l.Double, l.Int}),
	}, l.U)
	require.NoError(t, err)

	assert.True(t, resolved.Output().Eq(NewParameterised(optBase, l.Double)))
	m, _ := resolved.Input("mapping")
	require.IsType(t, &Lambda{}, m)
	assert.True(t, m.(*Lambda).Inputs()[0].Eq(l.Int))
}

func TestObserveRejectsShapeMismatch(t *testing.T) {
	l := newLattice()
	defer func() {
		_, ok := recover().(StructuralInvariantViolation)
		assert.True(t, ok, "expected a structural invariant violation")
	}()
	newObservations().observe(NewParameterised(l.ListBase, l.Any), l.Int)
	t.Fatal("observe should have panicked")
}

func TestSignatureDescribe(t *testing.T) {
	l := newLattice()
	sig := NewSignature(map[string]Type{
		"predicate": l.Bool,
		"b":         l.Any,
		"a":         l.Any,
	}, l.Any)
	assert.Equal(t, "a : any[all], b : any[all], predicate : boolean -> any[all]", sig.Describe(l.Names))
}
