package codec

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

// ProjectFile is the name of the project configuration file.
const ProjectFile = "vamp.toml"

// ProjectConfig declares the variables programs in a project are checked
// and evaluated against.
type ProjectConfig struct {
	// Expect is a type expression the program's result must fit.
	Expect string `toml:"expect,omitempty"`

	// Variables declares the free variables programs may reference.
	Variables map[string]*Variable `toml:"variables"`
}

// Variable declares one free variable.
type Variable struct {
	// Type is a type expression, like int or list<string>.
	Type string `toml:"type"`

	// Value is the variable's value, decoded with the value codec of Type.
	// Variables without one can be declared but not evaluated.
	Value any `toml:"value,omitempty"`
}

// LoadProjectConfig reads the variable declarations in a vamp.toml file.
// Unknown keys are rejected, so a misspelt value is not silently dropped.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	var config ProjectConfig
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return &config, nil
}

// FindProjectConfig locates the vamp.toml governing programs in dir: the
// nearest one in dir or an ancestor, without leaving the enclosing
// repository. A missing file is not an error; the path and config are then
// empty and nil.
func FindProjectConfig(dir string) (string, *ProjectConfig, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for dir := abs; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ProjectFile)
		if exists(candidate) {
			config, err := LoadProjectConfig(candidate)
			if err != nil {
				return "", nil, err
			}
			return candidate, config, nil
		}
		if exists(filepath.Join(dir, ".git")) || filepath.Dir(dir) == dir {
			return "", nil, nil
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExpectedType parses Expect, returning nil when it is unset.
func (c *ProjectConfig) ExpectedType(env *vamp.Environment) (vtype.Type, error) {
	if c == nil || c.Expect == "" {
		return nil, nil
	}
	return ParseType(env, c.Expect)
}

// Spec declares the configured variables.
func (c *ProjectConfig) Spec(env *vamp.Environment) (vamp.Spec, error) {
	vars := map[string]vtype.Type{}
	if c != nil {
		for name, v := range c.Variables {
			t, err := ParseType(env, v.Type)
			if err != nil {
				return vamp.Spec{}, fmt.Errorf("variable %q: %w", name, err)
			}
			vars[name] = t
		}
	}
	return vamp.NewSpec(vars), nil
}

// Context decodes the configured values and builds a Context satisfying
// spec.
func (c *ProjectConfig) Context(env *vamp.Environment, reg *Registry, spec vamp.Spec) (*vamp.Context, error) {
	b := vamp.NewBuilder(spec, env)
	if c != nil {
		d := NewDecoder(env, reg)
		for _, name := range slices.Sorted(maps.Keys(c.Variables)) {
			v := c.Variables[name]
			if v.Value == nil {
				continue
			}
			t, ok := spec.TypeOf(name)
			if !ok {
				continue
			}
			value, err := d.Value(v.Value, t)
			if err != nil {
				return nil, fmt.Errorf("variable %q: %w", name, err)
			}
			b.Set(name, value)
		}
	}
	return b.Build()
}
