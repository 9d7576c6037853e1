package codec

import (
	"github.com/pkg/errors"

	"github.com/williambl/vampilang/pkg/stdlib"
	"github.com/williambl/vampilang/pkg/vtype"
)

// StandardRegistry returns a Registry with codecs for the standard types.
func StandardRegistry() *Registry {
	r := NewRegistry()
	r.Register(stdlib.Int, Scalar[int64]())
	r.Register(stdlib.Double, ValueCodec{
		Decode: func(doc any) (any, error) {
			switch x := doc.(type) {
			case float64:
				return x, nil
			case int64:
				return float64(x), nil
			default:
				return nil, errors.Errorf("expected a number, got %T", doc)
			}
		},
		Encode: Scalar[float64]().Encode,
	})
	r.Register(stdlib.Boolean, Scalar[bool]())
	r.Register(stdlib.String, Scalar[string]())
	r.RegisterParameterised(stdlib.List.Base(), ListFactory)
	r.RegisterParameterised(stdlib.Optional.Base(), optionalFactory)
	r.RegisterParameterised(stdlib.MatchCase.Base(), matchCaseFactory)
	return r
}

// ListFactory builds codecs for lists of values whose element type has a
// codec. Payloads are []vtype.Value.
func ListFactory(r *Registry, t *vtype.Parameterised) (ValueCodec, bool) {
	elemType := t.Params()[0]
	elem, ok := r.CodecFor(elemType)
	if !ok {
		return ValueCodec{}, false
	}
	return ValueCodec{
		Decode: func(doc any) (any, error) {
			items, ok := doc.([]any)
			if !ok {
				return nil, errors.Errorf("expected a list, got %T", doc)
			}
			out := make([]vtype.Value, len(items))
			for i, item := range items {
				p, err := elem.Decode(item)
				if err != nil {
					return nil, errors.Wrapf(err, "[%d]", i)
				}
				out[i] = vtype.ValueOf(elemType, p)
			}
			return out, nil
		},
		Encode: func(payload any) (any, error) {
			values, ok := payload.([]vtype.Value)
			if !ok {
				return nil, errors.Errorf("expected []vtype.Value, got %T", payload)
			}
			out := make([]any, len(values))
			for i, v := range values {
				doc, err := elem.Encode(v.Payload)
				if err != nil {
					return nil, errors.Wrapf(err, "[%d]", i)
				}
				out[i] = doc
			}
			return out, nil
		},
	}, true
}

// optionals are null when absent.
func optionalFactory(r *Registry, t *vtype.Parameterised) (ValueCodec, bool) {
	elem, ok := r.CodecFor(t.Params()[0])
	if !ok {
		return ValueCodec{}, false
	}
	return ValueCodec{
		Decode: func(doc any) (any, error) {
			if doc == nil {
				return stdlib.None(), nil
			}
			p, err := elem.Decode(doc)
			if err != nil {
				return nil, err
			}
			return stdlib.Some(p), nil
		},
		Encode: func(payload any) (any, error) {
			opt, ok := payload.(stdlib.OptionalValue)
			if !ok {
				return nil, errors.Errorf("expected an optional, got %T", payload)
			}
			if !opt.Present {
				return nil, nil
			}
			return elem.Encode(opt.Value)
		},
	}, true
}

func matchCaseFactory(r *Registry, t *vtype.Parameterised) (ValueCodec, bool) {
	when, ok := r.CodecFor(t.Params()[0])
	if !ok {
		return ValueCodec{}, false
	}
	then, ok := r.CodecFor(t.Params()[1])
	if !ok {
		return ValueCodec{}, false
	}
	return ValueCodec{
		Decode: func(doc any) (any, error) {
			m, ok := doc.(map[string]any)
			if !ok || len(m) != 2 {
				return nil, errors.Errorf("expected {when, then}, got %v", doc)
			}
			w, err := when.Decode(m["when"])
			if err != nil {
				return nil, errors.Wrap(err, "when")
			}
			th, err := then.Decode(m["then"])
			if err != nil {
				return nil, errors.Wrap(err, "then")
			}
			return stdlib.Case{When: w, Then: th}, nil
		},
		Encode: func(payload any) (any, error) {
			c, ok := payload.(stdlib.Case)
			if !ok {
				return nil, errors.Errorf("expected a match case, got %T", payload)
			}
			w, err := when.Encode(c.When)
			if err != nil {
				return nil, errors.Wrap(err, "when")
			}
			th, err := then.Encode(c.Then)
			if err != nil {
				return nil, errors.Wrap(err, "then")
			}
			return map[string]any{"when": w, "then": th}, nil
		},
	}, true
}
