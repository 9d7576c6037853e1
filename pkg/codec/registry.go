package codec

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/williambl/vampilang/pkg/vtype"
)

// ValueCodec converts the payloads of one type to and from documents.
type ValueCodec struct {
	Decode func(doc any) (any, error)
	Encode func(payload any) (any, error)
}

// Factory builds the codec for one instance of a parameterised type, or
// reports that it cannot.
type Factory func(r *Registry, t *vtype.Parameterised) (ValueCodec, bool)

type registered struct {
	typ   vtype.Type
	codec ValueCodec
}

// Registry holds the value codecs literals are decoded and encoded with.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	codecs    []registered
	factories map[uint64]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[uint64]Factory{}}
}

// Register sets the codec for values of t.
func (r *Registry) Register(t vtype.Type, c ValueCodec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(t, c)
}

func (r *Registry) register(t vtype.Type, c ValueCodec) {
	for i, reg := range r.codecs {
		if reg.typ.Eq(t) {
			r.codecs[i].codec = c
			return
		}
	}
	r.codecs = append(r.codecs, registered{t, c})
}

// RegisterParameterised sets the factory used for every instance of a
// parameterised type with the given base.
func (r *Registry) RegisterParameterised(base *vtype.Atomic, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[base.ID()] = f
}

// CodecFor returns the codec for values of t. Codecs for parameterised
// types are built by their base's factory on first use.
func (r *Registry) CodecFor(t vtype.Type) (ValueCodec, bool) {
	r.mu.Lock()
	for _, reg := range r.codecs {
		if reg.typ.Eq(t) {
			r.mu.Unlock()
			return reg.codec, true
		}
	}
	p, ok := t.(*vtype.Parameterised)
	if !ok {
		r.mu.Unlock()
		return ValueCodec{}, false
	}
	factory, ok := r.factories[p.Base().ID()]
	r.mu.Unlock()
	if !ok {
		return ValueCodec{}, false
	}

	// factories look up their parameters' codecs, so build unlocked
	c, ok := factory(r, p)
	if !ok {
		return ValueCodec{}, false
	}
	r.mu.Lock()
	r.register(t, c)
	r.mu.Unlock()
	slog.Debug("built value codec", "type", t)
	return c, true
}

// Scalar is the codec for payloads stored in documents as-is.
func Scalar[T any]() ValueCodec {
	cast := func(v any) (any, error) {
		x, ok := v.(T)
		if !ok {
			return nil, errors.Errorf("expected %T, got %T", x, v)
		}
		return x, nil
	}
	return ValueCodec{Decode: cast, Encode: cast}
}
