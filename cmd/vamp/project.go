package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/williambl/vampilang/pkg/codec"
	"github.com/williambl/vampilang/pkg/stdlib"
	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

// project is everything a program is decoded and evaluated against.
type project struct {
	env      *vamp.Environment
	reg      *codec.Registry
	config   *codec.ProjectConfig
	spec     vamp.Spec
	expected vtype.Type
}

func loadProject(cfg *Config) (*project, error) {
	p := &project{
		env: stdlib.NewEnvironment(),
		reg: codec.StandardRegistry(),
	}

	if cfg.Config != "" {
		config, err := codec.LoadProjectConfig(cfg.Config)
		if err != nil {
			return nil, err
		}
		p.config = config
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path, config, err := codec.FindProjectConfig(cwd)
		if err != nil {
			return nil, fmt.Errorf("failed to find %s: %w", codec.ProjectFile, err)
		}
		if config != nil {
			slog.Debug("loaded project config", "path", path)
		}
		p.config = config
	}

	spec, err := p.config.Spec(p.env)
	if err != nil {
		return nil, err
	}
	p.spec = spec

	if cfg.Expect != "" {
		p.expected, err = codec.ParseType(p.env, cfg.Expect)
	} else {
		p.expected, err = p.config.ExpectedType(p.env)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// decode reads and resolves the program in path.
func (p *project) decode(path string) (vamp.Expression, error) {
	doc, err := codec.ParseFile(path)
	if err != nil {
		return nil, err
	}
	expr, err := codec.NewDecoder(p.env, p.reg).Decode(doc, p.expected, p.spec)
	if err != nil {
		return nil, &fileError{path: path, err: err}
	}
	return expr, nil
}

// fileError attributes a failure to the program file it came from.
type fileError struct {
	path string
	err  error
}

func (e *fileError) Describe(n *vtype.Namer) string {
	return e.path + ": " + vamp.DescribeError(e.err, n)
}

func (e *fileError) Error() string {
	return e.path + ": " + e.err.Error()
}

func (e *fileError) Unwrap() error {
	return e.err
}
