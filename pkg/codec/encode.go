package codec

import (
	"encoding/json"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/williambl/vampilang/pkg/vamp"
)

// Encoder turns expressions back into documents.
type Encoder struct {
	reg *Registry
}

// NewEncoder returns an Encoder writing literals with reg's codecs.
func NewEncoder(reg *Registry) *Encoder {
	return &Encoder{reg: reg}
}

// Encode converts expr to a document. Lambdas are written as their body.
func (e *Encoder) Encode(expr vamp.Expression) (any, error) {
	r := vamp.Visit[encoded](expr, encoder{e.reg})
	return r.doc, r.err
}

// EncodeJSON encodes expr as indented JSON.
func (e *Encoder) EncodeJSON(expr vamp.Expression) ([]byte, error) {
	doc, err := e.Encode(expr)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// EncodeYAML encodes expr as YAML.
func (e *Encoder) EncodeYAML(expr vamp.Expression) ([]byte, error) {
	doc, err := e.Encode(expr)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

type encoded struct {
	doc any
	err error
}

type encoder struct {
	reg *Registry
}

var _ vamp.Visitor[encoded] = encoder{}

func (enc encoder) VisitLiteral(e *vamp.Literal) encoded {
	v := e.Value()
	c, ok := enc.reg.CodecFor(v.Type)
	if !ok {
		return encoded{err: errors.Errorf("no value codec for %s to encode %s", v.Type, pretty.Sprintf("%# v", v.Payload))}
	}
	doc, err := c.Encode(v.Payload)
	if err != nil {
		return encoded{err: errors.Wrapf(err, "encoding %s", pretty.Sprintf("%# v", v.Payload))}
	}
	return encoded{doc: doc}
}

func (enc encoder) VisitVariableRef(e *vamp.VariableRef) encoded {
	return encoded{doc: map[string]any{VarKey: e.Name()}}
}

func (enc encoder) VisitFunctionApplication(e *vamp.FunctionApplication) encoded {
	return enc.fields(FunctionKey, e.Function().Name, e.Args())
}

func (enc encoder) VisitObjectConstruction(e *vamp.ObjectConstruction) encoded {
	return enc.fields(TypeKey, e.TypeName(), e.Properties())
}

func (enc encoder) VisitListConstruction(e *vamp.ListConstruction) encoded {
	out := make([]any, 0, len(e.Elements()))
	for i, elem := range e.Elements() {
		r := vamp.Visit[encoded](elem, enc)
		if r.err != nil {
			return encoded{err: errors.Wrapf(r.err, "[%d]", i)}
		}
		out = append(out, r.doc)
	}
	return encoded{doc: out}
}

func (enc encoder) VisitLambda(e *vamp.Lambda) encoded {
	return vamp.Visit[encoded](e.Body(), enc)
}

func (enc encoder) fields(tag, name string, fields map[string]vamp.Expression) encoded {
	out := map[string]any{tag: name}
	for key, expr := range fields {
		r := vamp.Visit[encoded](expr, enc)
		if r.err != nil {
			return encoded{err: errors.Wrap(r.err, key)}
		}
		out[key] = r.doc
	}
	return encoded{doc: out}
}
