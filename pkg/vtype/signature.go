package vtype

import (
	"maps"
	"slices"
	"strings"
)

// Signature is the declared type of a function: a type per named input and
// an output type. Signatures are immutable.
type Signature struct {
	inputs map[string]Type
	output Type
}

// NewSignature creates a signature from its input and output types.
func NewSignature(inputs map[string]Type, output Type) *Signature {
	return &Signature{inputs: maps.Clone(inputs), output: output}
}

// Input returns the declared type of the named input.
func (s *Signature) Input(name string) (Type, bool) {
	t, ok := s.inputs[name]
	return t, ok
}

// Inputs returns a copy of the input types.
func (s *Signature) Inputs() map[string]Type {
	return maps.Clone(s.inputs)
}

// Names returns the input names in sorted order.
func (s *Signature) Names() []string {
	return sortedKeys(s.inputs)
}

// Output returns the declared output type.
func (s *Signature) Output() Type {
	return s.output
}

// Freshen replaces every template with a fresh one. A template referenced
// several times maps to a single fresh template.
func (s *Signature) Freshen() *Signature {
	seen := Fresh{}
	inputs := make(map[string]Type, len(s.inputs))
	for _, name := range s.Names() {
		inputs[name] = s.inputs[name].Freshen(seen)
	}
	return &Signature{inputs: inputs, output: s.output.Freshen(seen)}
}

// Describe renders the signature as "a : T, b : U -> V".
func (s *Signature) Describe(n *Namer) string {
	var b strings.Builder
	for i, name := range s.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(" : ")
		b.WriteString(s.inputs[name].Describe(n))
	}
	b.WriteString(" -> ")
	b.WriteString(s.output.Describe(n))
	return b.String()
}

func (s *Signature) String() string {
	return s.Describe(NewNamer())
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
