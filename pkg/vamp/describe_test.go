package vamp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/williambl/vampilang/pkg/vamp"
)

func TestDescribe(t *testing.T) {
	w := newWorld()
	exprB, specB := w.scenarioB()
	exprD, specD := w.scenarioD()

	for _, tc := range []struct {
		name string
		expr vamp.Expression
		spec vamp.Spec
	}{
		{"if_else", w.scenarioA(), vamp.NewSpec(nil)},
		{"head", exprB, specB},
		{"point", w.scenarioC(), vamp.NewSpec(nil)},
		{"map_optional", exprD, specD},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := vamp.Resolve(tc.expr, w.Env, tc.spec)
			require.NoError(t, err)

			var out strings.Builder
			out.WriteString(tc.expr.Describe(w.Env.Namer()))
			out.WriteString("\n")
			out.WriteString(resolved.Describe(w.Env.Namer()))
			out.WriteString("\n")
			golden.Assert(t, out.String(), tc.name+".golden")
		})
	}
}
