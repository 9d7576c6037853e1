package vtype

// Subs maps templates to the types they are bound to.
type Subs map[Template]Type

// Apply replaces every bound template in t, rebuilding composite types
// around the substituted parameters. Unbound templates are left in place.
func (s Subs) Apply(t Type) Type {
	switch x := t.(type) {
	case Template:
		if b, ok := s[x]; ok {
			return b
		}
		return x
	case Composite:
		params := x.Params()
		out := make([]Type, len(params))
		changed := false
		for i, p := range params {
			out[i] = s.Apply(p)
			if out[i] != p {
				changed = true
			}
		}
		if !changed {
			return x
		}
		return WithParams(x, out)
	default:
		return t
	}
}
