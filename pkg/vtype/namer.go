package vtype

import (
	"fmt"
	"slices"
	"strings"
)

// Namer assigns display names to types. Registered types keep their names;
// anonymous ones are numbered in the order they are first described.
type Namer struct {
	names map[uint64]string
	anon  int
}

// NewNamer returns a namer with no registered names.
func NewNamer() *Namer {
	return &Namer{names: map[uint64]string{}}
}

// Register names t. Composite types are named through their base. The
// first name registered for a type wins.
func (n *Namer) Register(t Type, name string) {
	if c, ok := t.(Composite); ok {
		t = c.Base()
	}
	if _, ok := n.names[t.ID()]; ok {
		return
	}
	n.names[t.ID()] = name
}

// Name returns the display name of t without any bounds or parameters.
func (n *Namer) Name(t Type) string {
	if c, ok := t.(Composite); ok {
		t = c.Base()
	}
	if name, ok := n.names[t.ID()]; ok {
		return name
	}
	n.anon++
	name := fmt.Sprintf("type%d", n.anon)
	n.names[t.ID()] = name
	return name
}

func (n *Namer) describeTemplate(t Template) string {
	name := n.Name(t)
	switch x := t.(type) {
	case *FixedTemplate:
		bounds := make([]string, len(x.bounds))
		for i, b := range x.bounds {
			bounds[i] = b.Describe(n)
		}
		slices.Sort(bounds)
		return name + "[" + strings.Join(bounds, "|") + "]"
	case *DynamicTemplate:
		return name + "[dynamic]"
	default:
		return name + "[all]"
	}
}

func describeComposite(t Composite, n *Namer) string {
	params := make([]string, len(t.Params()))
	for i, p := range t.Params() {
		params[i] = p.Describe(n)
	}
	return n.Name(t.Base()) + "<" + strings.Join(params, ",") + ">"
}
