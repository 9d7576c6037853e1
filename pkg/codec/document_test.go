package codec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williambl/vampilang/pkg/codec"
	"github.com/williambl/vampilang/pkg/stdlib"
)

func TestParseFormats(t *testing.T) {
	want := map[string]any{
		"function": "polynomial",
		"input":    2.5,
		"coefficients": []any{
			int64(1),
			map[string]any{"var": "c"},
		},
	}

	for name, parse := range map[string]func() (any, error){
		"json": func() (any, error) {
			return codec.ParseJSON([]byte(`{"function": "polynomial", "input": 2.5, "coefficients": [1, {"var": "c"}]}`))
		},
		"yaml": func() (any, error) {
			return codec.ParseYAML([]byte("function: polynomial\ninput: 2.5\ncoefficients:\n  - 1\n  - var: c\n"))
		},
		"toml": func() (any, error) {
			return codec.ParseTOML([]byte("function = \"polynomial\"\ninput = 2.5\ncoefficients = [1, {var = \"c\"}]\n"))
		},
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := parse()
			require.NoError(t, err)
			if diff := cmp.Diff(want, doc); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	_, err := codec.ParseJSON([]byte(`{"var": "a"} {"var": "b"}`))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.yml")
	require.NoError(t, os.WriteFile(path, []byte("function: not\noperand: true\n"), 0o644))

	doc, err := codec.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"function": "not", "operand": true}, doc)

	other := filepath.Join(dir, "program.txt")
	require.NoError(t, os.WriteFile(other, []byte("true"), 0o644))
	_, err = codec.ParseFile(other)
	assert.ErrorContains(t, err, "unknown document format")
}

func TestParseType(t *testing.T) {
	env := newEnv()

	for src, want := range map[string]string{
		"int":                               "int",
		"list<int>":                         "list<int>",
		"list< list<double> >":              "list<list<double>>",
		"match_case<int, string>":           "match_case<int,string>",
		"optional<match_case<int,boolean>>": "optional<match_case<int,boolean>>",
	} {
		typ, err := codec.ParseType(env, src)
		require.NoError(t, err, src)
		assert.Equal(t, want, typ.Describe(env.Namer()), src)
	}

	listOfInt, err := codec.ParseType(env, "list<int>")
	require.NoError(t, err)
	assert.True(t, listOfInt.Eq(stdlib.ListOf(stdlib.Int)))

	for _, src := range []string{"", "nope", "int<int>", "list<int", "list<int,int>", "list<int>>"} {
		_, err := codec.ParseType(env, src)
		assert.Error(t, err, src)
	}
}
