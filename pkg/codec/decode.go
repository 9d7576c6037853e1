// Package codec reads and writes programs as documents.
//
// A document is the generic tree produced by a JSON, YAML or TOML parser:
// map[string]any, []any, string, bool, int64, float64 or nil. Maps with a
// "var" key are variable references, maps with a "function" key are
// function applications and maps with a "v-type" key construct objects.
// Arrays construct lists, and anything else is a literal decoded by the
// value codecs of a Registry.
package codec

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"

	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

const (
	VarKey      = "var"
	FunctionKey = "function"
	TypeKey     = "v-type"
)

// DefaultMaxCandidates bounds the readings kept for any one document node.
const DefaultMaxCandidates = 256

// maxTypeDepth bounds how deeply templates are expanded into concrete types.
const maxTypeDepth = 3

// errSkip marks a form that does not apply to a document.
var errSkip = errors.New("form does not apply")

// Decoder turns documents into resolved expressions.
//
// A document can often be read more than one way: 3 is an int or a double,
// and a variable's type is only known from the Spec. Every node yields its
// well-typed readings in order, and parents try combinations of their
// children's readings until one resolves.
type Decoder struct {
	env           *vamp.Environment
	reg           *Registry
	maxCandidates int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxCandidates overrides DefaultMaxCandidates.
func WithMaxCandidates(n int) Option {
	return func(d *Decoder) {
		d.maxCandidates = n
	}
}

// NewDecoder returns a Decoder for programs over env.
func NewDecoder(env *vamp.Environment, reg *Registry, opts ...Option) *Decoder {
	d := &Decoder{env: env, reg: reg, maxCandidates: DefaultMaxCandidates}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads doc as an expression whose type is contained by expected and
// returns it resolved against spec. A nil expected accepts any type.
func (d *Decoder) Decode(doc any, expected vtype.Type, spec vamp.Spec) (vamp.Expression, error) {
	if expected == nil {
		expected = vtype.NewTopTemplate()
	}
	cands, err := d.candidates("$", doc, expected, spec)
	if err != nil {
		return nil, err
	}
	slog.Debug("decoded document", "readings", len(cands), "type", cands[0].Type())
	return cands[0], nil
}

type form func(path string, doc any, expected vtype.Type, spec vamp.Spec) ([]vamp.Expression, error)

// candidates returns the resolved readings of doc that fit expected.
func (d *Decoder) candidates(path string, doc any, expected vtype.Type, spec vamp.Spec) ([]vamp.Expression, error) {
	var forms []form
	if _, ok := expected.(*vtype.Lambda); ok {
		forms = []form{d.lambda}
	} else {
		forms = []form{d.variable, d.application, d.list, d.object, d.literal}
	}

	var raw []vamp.Expression
	var reasons []error
	for _, f := range forms {
		exprs, err := f(path, doc, expected, spec)
		if err != nil {
			if !errors.Is(err, errSkip) {
				reasons = append(reasons, err)
			}
			continue
		}
		raw = append(raw, exprs...)
	}

	var out []vamp.Expression
	for _, expr := range raw {
		resolved, err := expr.Resolve(d.env, spec)
		if err != nil {
			reasons = append(reasons, err)
			continue
		}
		if !expected.Contains(resolved.Type(), d.env) {
			reasons = append(reasons, &MismatchError{Expected: expected, Actual: resolved.Type()})
			continue
		}
		out = append(out, resolved)
		if len(out) == d.maxCandidates {
			slog.Debug("truncated readings", "path", path, "max", d.maxCandidates)
			break
		}
	}
	if len(out) == 0 {
		return nil, &DecodeError{Path: path, Expected: expected, Reasons: reasons}
	}
	return out, nil
}

func (d *Decoder) variable(path string, doc any, _ vtype.Type, _ vamp.Spec) ([]vamp.Expression, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, errSkip
	}
	v, ok := m[VarKey]
	if !ok {
		return nil, errSkip
	}
	name, ok := v.(string)
	if !ok || len(m) != 1 {
		return nil, errors.Errorf("%s: %q must be a string and the only key", path, VarKey)
	}
	return []vamp.Expression{vamp.NewVariableRef(name)}, nil
}

func (d *Decoder) application(path string, doc any, _ vtype.Type, spec vamp.Spec) ([]vamp.Expression, error) {
	name, m, err := tagged(doc, FunctionKey)
	if err != nil {
		return nil, err
	}
	fn, ok := d.env.Function(name)
	if !ok {
		return nil, errors.Wrap(&vamp.UnknownFunctionError{Name: name}, path)
	}
	sets, err := d.fields(path, m, FunctionKey, fn.Signature.Names(), func(param string) vtype.Type {
		t, _ := fn.Signature.Input(param)
		return t
	}, spec)
	if err != nil {
		return nil, err
	}
	out := make([]vamp.Expression, len(sets))
	for i, args := range sets {
		out[i] = vamp.NewFunctionApplication(fn, args)
	}
	return out, nil
}

func (d *Decoder) object(path string, doc any, _ vtype.Type, spec vamp.Spec) ([]vamp.Expression, error) {
	name, m, err := tagged(doc, TypeKey)
	if err != nil {
		return nil, err
	}
	t, registered := d.env.Type(name)
	atomic, ok := t.(*vtype.Atomic)
	if !ok || !atomic.IsObject() {
		return nil, errors.Wrap(&vamp.NotConstructableError{TypeName: name, Registered: registered}, path)
	}
	props := atomic.Properties()
	sets, err := d.fields(path, m, TypeKey, slices.Sorted(maps.Keys(props)), func(prop string) vtype.Type {
		return props[prop]
	}, spec)
	if err != nil {
		return nil, err
	}
	out := make([]vamp.Expression, len(sets))
	for i, fields := range sets {
		out[i] = vamp.NewObjectConstruction(name, fields)
	}
	return out, nil
}

func (d *Decoder) list(path string, doc any, expected vtype.Type, spec vamp.Spec) ([]vamp.Expression, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, errSkip
	}
	listType := d.env.ListType()
	if listType == nil {
		return nil, errors.Errorf("%s: no list type is registered", path)
	}
	isList := func(t vtype.Type) (*vtype.Parameterised, bool) {
		p, ok := t.(*vtype.Parameterised)
		return p, ok && p.Base().Eq(listType.Base())
	}

	var elemType vtype.Type
	if p, ok := isList(expected); ok {
		elemType = p.Params()[0]
	} else if vtype.IsTemplate(expected) {
		elemType = vtype.NewTopTemplate()
	} else {
		return nil, errSkip
	}

	if len(items) == 0 {
		var out []vamp.Expression
		for _, t := range d.concrete(expected, 0) {
			if p, ok := isList(t); ok {
				out = append(out, vamp.NewTypedList(p))
			}
		}
		return out, nil
	}

	choices := make([][]vamp.Expression, len(items))
	for i, item := range items {
		cands, err := d.candidates(fmt.Sprintf("%s[%d]", path, i), item, elemType, spec)
		if err != nil {
			return nil, err
		}
		choices[i] = cands
	}
	var out []vamp.Expression
	for _, elems := range product(choices, d.maxCandidates) {
		out = append(out, vamp.NewListConstruction(elems...))
	}
	return out, nil
}

func (d *Decoder) literal(path string, doc any, expected vtype.Type, _ vamp.Spec) ([]vamp.Expression, error) {
	if m, ok := doc.(map[string]any); ok {
		for _, key := range []string{VarKey, FunctionKey, TypeKey} {
			if _, tagged := m[key]; tagged {
				return nil, errSkip
			}
		}
	}
	values := d.values(doc, expected)
	if len(values) == 0 {
		return nil, errors.Errorf("%s: no value of %s reads %v", path, expected, doc)
	}
	out := make([]vamp.Expression, len(values))
	for i, v := range values {
		out[i] = vamp.NewLiteral(v)
	}
	return out, nil
}

// values reads doc with the codec of each concrete type t stands for.
func (d *Decoder) values(doc any, t vtype.Type) []vtype.Value {
	var out []vtype.Value
	for _, ct := range d.concrete(t, 0) {
		c, ok := d.reg.CodecFor(ct)
		if !ok {
			continue
		}
		payload, err := c.Decode(doc)
		if err != nil || !ct.Accepts(payload, d.env) {
			continue
		}
		out = append(out, vtype.ValueOf(ct, payload))
	}
	return out
}

// Value reads a document holding a plain value of type t. Templates are
// read as the first concrete type they stand for that accepts doc.
func (d *Decoder) Value(doc any, t vtype.Type) (vtype.Value, error) {
	values := d.values(Normalize(doc), t)
	if len(values) == 0 {
		return vtype.Value{}, errors.Errorf("no value of %s reads %v", t.Describe(d.env.Namer()), doc)
	}
	return values[0], nil
}

// lambda reads doc as the body of a lambda. Template inputs are tried at
// each concrete type they range over, and the result is narrowed to the
// body's type.
func (d *Decoder) lambda(path string, doc any, expected vtype.Type, spec vamp.Spec) ([]vamp.Expression, error) {
	lt := expected.(*vtype.Lambda)
	choices := make([][]vtype.Type, len(lt.Inputs()))
	for i, in := range lt.Inputs() {
		if len(vtype.Templates(in)) == 0 {
			choices[i] = []vtype.Type{in}
			continue
		}
		choices[i] = d.concrete(in, 0)
	}

	var out []vamp.Expression
	var reasons []error
	for _, inputs := range product(choices, d.maxCandidates) {
		typed := lt.WithAll(append([]vtype.Type{lt.Result()}, inputs...))
		bodies, err := d.candidates(path, doc, typed.Result(), spec.Merge(typed.ExtraBindings()))
		if err != nil {
			reasons = append(reasons, err)
			continue
		}
		for _, body := range bodies {
			out = append(out, vamp.NewLambda(typed.With(0, body.Type()), body))
		}
	}
	if len(out) == 0 {
		return nil, &DecodeError{Path: path, Expected: expected, Reasons: reasons}
	}
	return out, nil
}

// fields decodes the named entries of m. Keys match names exactly or in
// another case style, like unwrappedOptional for unwrapped_optional. It
// returns one field set per combination of readings.
func (d *Decoder) fields(path string, m map[string]any, tag string, names []string, typeOf func(string) vtype.Type, spec vamp.Spec) ([]map[string]vamp.Expression, error) {
	keys := make(map[string]string, len(names))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if key == tag {
			continue
		}
		name, ok := matchKey(key, names)
		if !ok {
			return nil, errors.Errorf("%s: unexpected key %q", path, key)
		}
		keys[name] = key
	}

	choices := make([][]vamp.Expression, len(names))
	for i, name := range names {
		key, ok := keys[name]
		if !ok {
			return nil, errors.Errorf("%s: missing key %q", path, name)
		}
		cands, err := d.candidates(path+"."+key, m[key], typeOf(name), spec)
		if err != nil {
			return nil, err
		}
		choices[i] = cands
	}

	var out []map[string]vamp.Expression
	for _, combo := range product(choices, d.maxCandidates) {
		set := make(map[string]vamp.Expression, len(names))
		for i, name := range names {
			set[name] = combo[i]
		}
		out = append(out, set)
	}
	return out, nil
}

// concrete lists the template-free types t ranges over, in registration
// order. Lambda types have no concrete instances.
func (d *Decoder) concrete(t vtype.Type, depth int) []vtype.Type {
	if depth > maxTypeDepth {
		return nil
	}
	var out []vtype.Type
	switch x := t.(type) {
	case vtype.Template:
		for _, b := range x.Bounds(d.env) {
			out = appendNew(out, d.concrete(b, depth+1)...)
		}
	case *vtype.Lambda:
	case vtype.Composite:
		params := x.Params()
		choices := make([][]vtype.Type, len(params))
		for i, p := range params {
			choices[i] = d.concrete(p, depth+1)
		}
		for _, combo := range product(choices, d.maxCandidates) {
			out = appendNew(out, vtype.WithParams(x, combo))
		}
	default:
		out = append(out, t)
	}
	return out
}

func appendNew(ts []vtype.Type, more ...vtype.Type) []vtype.Type {
	for _, t := range more {
		if !slices.ContainsFunc(ts, t.Eq) {
			ts = append(ts, t)
		}
	}
	return ts
}

// tagged returns the string under tag in a map document.
func tagged(doc any, tag string) (string, map[string]any, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return "", nil, errSkip
	}
	v, ok := m[tag]
	if !ok {
		return "", nil, errSkip
	}
	name, ok := v.(string)
	if !ok {
		return "", nil, errors.Errorf("%q must be a string, got %T", tag, v)
	}
	return name, m, nil
}

func matchKey(key string, names []string) (string, bool) {
	snake := strcase.ToSnake(key)
	for _, name := range names {
		if key == name || snake == strcase.ToSnake(name) {
			return name, true
		}
	}
	return "", false
}

// product returns the cartesian product of choices with the last choice
// varying fastest, stopping after limit combinations.
func product[T any](choices [][]T, limit int) [][]T {
	for _, c := range choices {
		if len(c) == 0 {
			return nil
		}
	}
	var out [][]T
	idx := make([]int, len(choices))
	for len(out) < limit {
		combo := make([]T, len(choices))
		for i, j := range idx {
			combo[i] = choices[i][j]
		}
		out = append(out, combo)

		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(choices[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return out
}

// MismatchError is a reading whose type falls outside the expected type.
type MismatchError struct {
	Expected, Actual vtype.Type
}

func (e *MismatchError) Describe(n *vtype.Namer) string {
	return fmt.Sprintf("expected %s, got %s", e.Expected.Describe(n), e.Actual.Describe(n))
}

func (e *MismatchError) Error() string {
	return e.Describe(vtype.NewNamer())
}

// maxReasons bounds the reasons printed per DecodeError.
const maxReasons = 8

// DecodeError reports that no reading of the document at Path fits
// Expected, with the reason each reading was rejected.
type DecodeError struct {
	Path     string
	Expected vtype.Type
	Reasons  []error
}

func (e *DecodeError) Describe(n *vtype.Namer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: cannot read a %s", e.Path, e.Expected.Describe(n))
	for i, r := range e.Reasons {
		if i == maxReasons {
			fmt.Fprintf(&b, "\n  (%d more)", len(e.Reasons)-maxReasons)
			break
		}
		b.WriteString("\n  - ")
		b.WriteString(strings.ReplaceAll(vamp.DescribeError(r, n), "\n", "\n    "))
	}
	return b.String()
}

func (e *DecodeError) Error() string {
	return e.Describe(vtype.NewNamer())
}

func (e *DecodeError) Unwrap() []error {
	return e.Reasons
}
