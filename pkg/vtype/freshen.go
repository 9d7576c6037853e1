package vtype

// Fresh memoises template replacements while freshening, so that every
// reference to one template inside a signature maps to the same fresh
// template.
type Fresh map[Template]Type

// Freshen returns t with fresh template identities.
func Freshen(t Type) Type {
	return t.Freshen(Fresh{})
}

// IsTemplate reports whether t is one of the template kinds.
func IsTemplate(t Type) bool {
	_, ok := t.(Template)
	return ok
}

// Templates lists the distinct templates referenced by t, in depth-first
// order.
func Templates(t Type) []Template {
	var out []Template
	seen := map[uint64]bool{}
	var walk func(Type)
	walk = func(t Type) {
		switch x := t.(type) {
		case Template:
			if !seen[x.ID()] {
				seen[x.ID()] = true
				out = append(out, x)
			}
		case Composite:
			for _, p := range x.Params() {
				walk(p)
			}
		}
	}
	walk(t)
	return out
}
