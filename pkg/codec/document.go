package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParseJSON parses a JSON program document.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "parsing JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parsing JSON: trailing data after document")
	}
	return Normalize(doc), nil
}

// ParseYAML parses a YAML program document.
func ParseYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing YAML")
	}
	return Normalize(doc), nil
}

// ParseTOML parses a TOML program document. The root table is the program.
func ParseTOML(data []byte) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing TOML")
	}
	return Normalize(doc), nil
}

// ParseFile reads and parses a program document, choosing the format by
// extension.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		doc, err = ParseJSON(data)
	case ".yaml", ".yml":
		doc, err = ParseYAML(data)
	case ".toml":
		doc, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("%s: unknown document format %q", path, ext)
	}
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return doc, nil
}

// Normalize converts the output of a JSON, YAML or TOML decoder into a
// document.
func Normalize(doc any) any {
	switch x := doc.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = Normalize(v)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = Normalize(v)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[k] = Normalize(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[fmt.Sprint(k)] = Normalize(v)
		}
		return out
	default:
		return doc
	}
}
