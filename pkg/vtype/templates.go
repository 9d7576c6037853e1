package vtype

// Template is a placeholder standing for any type within its bounds. It is
// bound to a concrete type during signature resolution.
type Template interface {
	Type
	// Bounds lists the types the template ranges over.
	Bounds(u Universe) []Type
	template()
}

// FixedTemplate ranges over an explicit list of types.
type FixedTemplate struct {
	id     uint64
	bounds []Type
}

// NewTemplate creates a template bounded by the given types.
func NewTemplate(bounds ...Type) *FixedTemplate {
	return &FixedTemplate{id: nextID(), bounds: bounds}
}

func (t *FixedTemplate) template() {}

func (t *FixedTemplate) Bounds(Universe) []Type {
	return t.bounds
}

func (t *FixedTemplate) Contains(other Type, u Universe) bool {
	return t.contains(other, u, newGuard())
}

func (t *FixedTemplate) contains(other Type, u Universe, g *guard) bool {
	if t.Eq(other) {
		return true
	}
	for _, b := range t.bounds {
		if b.contains(other, u, g) {
			return true
		}
	}
	return templateContainsTemplate(t, other, u, g)
}

func (t *FixedTemplate) Accepts(payload any, u Universe) bool {
	return t.accepts(payload, u, newGuard())
}

func (t *FixedTemplate) accepts(payload any, u Universe, g *guard) bool {
	return boundsAccept(t, t.bounds, payload, u, g)
}

func (t *FixedTemplate) Freshen(seen Fresh) Type {
	if f, ok := seen[t]; ok {
		return f
	}
	f := &FixedTemplate{id: nextID(), bounds: t.bounds}
	seen[t] = f
	return f
}

func (t *FixedTemplate) Eq(other Type) bool {
	o, ok := other.(*FixedTemplate)
	return ok && o.id == t.id
}

func (t *FixedTemplate) ID() uint64 {
	return t.id
}

func (t *FixedTemplate) Describe(n *Namer) string {
	return n.describeTemplate(t)
}

func (t *FixedTemplate) String() string {
	return t.Describe(NewNamer())
}

// DynamicTemplate ranges over every registered type accepted by its
// predicate.
type DynamicTemplate struct {
	id        uint64
	predicate func(Type) bool
}

// NewDynamicTemplate creates a template bounded by the registered types
// matching pred.
func NewDynamicTemplate(pred func(Type) bool) *DynamicTemplate {
	return &DynamicTemplate{id: nextID(), predicate: pred}
}

func (t *DynamicTemplate) template() {}

func (t *DynamicTemplate) Bounds(u Universe) []Type {
	if u == nil {
		return nil
	}
	var bounds []Type
	for _, candidate := range u.AllTypes() {
		if t.predicate(candidate) {
			bounds = append(bounds, candidate)
		}
	}
	return bounds
}

func (t *DynamicTemplate) Contains(other Type, u Universe) bool {
	return t.contains(other, u, newGuard())
}

func (t *DynamicTemplate) contains(other Type, u Universe, g *guard) bool {
	if t.Eq(other) || t.predicate(other) {
		return true
	}
	return templateContainsTemplate(t, other, u, g)
}

func (t *DynamicTemplate) Accepts(payload any, u Universe) bool {
	return t.accepts(payload, u, newGuard())
}

func (t *DynamicTemplate) accepts(payload any, u Universe, g *guard) bool {
	return boundsAccept(t, t.Bounds(u), payload, u, g)
}

func (t *DynamicTemplate) Freshen(seen Fresh) Type {
	if f, ok := seen[t]; ok {
		return f
	}
	f := &DynamicTemplate{id: nextID(), predicate: t.predicate}
	seen[t] = f
	return f
}

func (t *DynamicTemplate) Eq(other Type) bool {
	o, ok := other.(*DynamicTemplate)
	return ok && o.id == t.id
}

func (t *DynamicTemplate) ID() uint64 {
	return t.id
}

func (t *DynamicTemplate) Describe(n *Namer) string {
	return n.describeTemplate(t)
}

func (t *DynamicTemplate) String() string {
	return t.Describe(NewNamer())
}

// TopTemplate ranges over every type.
type TopTemplate struct {
	id uint64
}

// NewTopTemplate creates a template that contains every type.
func NewTopTemplate() *TopTemplate {
	return &TopTemplate{id: nextID()}
}

func (t *TopTemplate) template() {}

func (t *TopTemplate) Bounds(u Universe) []Type {
	if u == nil {
		return nil
	}
	return u.AllTypes()
}

func (t *TopTemplate) Contains(Type, Universe) bool {
	return true
}

func (t *TopTemplate) contains(Type, Universe, *guard) bool {
	return true
}

func (t *TopTemplate) Accepts(any, Universe) bool {
	return true
}

func (t *TopTemplate) accepts(any, Universe, *guard) bool {
	return true
}

func (t *TopTemplate) Freshen(seen Fresh) Type {
	if f, ok := seen[t]; ok {
		return f
	}
	f := NewTopTemplate()
	seen[t] = f
	return f
}

func (t *TopTemplate) Eq(other Type) bool {
	o, ok := other.(*TopTemplate)
	return ok && o.id == t.id
}

func (t *TopTemplate) ID() uint64 {
	return t.id
}

func (t *TopTemplate) Describe(n *Namer) string {
	return n.describeTemplate(t)
}

func (t *TopTemplate) String() string {
	return t.Describe(NewNamer())
}

// templateContainsTemplate holds when other is a template and every one of
// its bounds is contained by t.
func templateContainsTemplate(t Template, other Type, u Universe, g *guard) bool {
	ot, ok := other.(Template)
	if !ok {
		return false
	}
	if !g.enter(t, ot) {
		return false
	}
	defer g.leave(t, ot)
	bounds := ot.Bounds(u)
	if len(bounds) == 0 {
		return false
	}
	for _, b := range bounds {
		if !t.contains(b, u, g) {
			return false
		}
	}
	return true
}

func boundsAccept(t Template, bounds []Type, payload any, u Universe, g *guard) bool {
	if !g.enter(t, t) {
		return false
	}
	defer g.leave(t, t)
	for _, b := range bounds {
		if b.accepts(payload, u, g) {
			return true
		}
	}
	return false
}

type guardKey struct {
	outer, inner uint64
}

// guard tracks the template pairs currently being compared so that
// mutually-bounded templates cannot recurse forever.
type guard struct {
	visiting map[guardKey]bool
}

func newGuard() *guard {
	return &guard{visiting: map[guardKey]bool{}}
}

func (g *guard) enter(outer, inner Type) bool {
	k := guardKey{outer.ID(), inner.ID()}
	if g.visiting[k] {
		return false
	}
	g.visiting[k] = true
	return true
}

func (g *guard) leave(outer, inner Type) {
	delete(g.visiting, guardKey{outer.ID(), inner.ID()})
}
