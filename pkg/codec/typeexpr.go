package codec

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

// ParseType reads a type expression: a registered type name, optionally
// applied to parameters in angle brackets, like list<int> or
// match_case<int, string>.
func ParseType(env *vamp.Environment, src string) (vtype.Type, error) {
	p := &typeParser{env: env, src: src}
	t, err := p.parse()
	if err != nil {
		return nil, errors.Wrapf(err, "type %q", src)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errors.Errorf("type %q: unexpected %q", src, p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	env *vamp.Environment
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) parse() (vtype.Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("<>, ", rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, errors.Errorf("expected a type name at %d", start)
	}
	t, ok := p.env.Type(name)
	if !ok {
		return nil, errors.Errorf("unknown type %q", name)
	}

	p.skipSpace()
	if p.pos == len(p.src) || p.src[p.pos] != '<' {
		return t, nil
	}
	p.pos++

	var params []vtype.Type
	for closed := false; !closed; {
		param, err := p.parse()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		p.skipSpace()
		if p.pos == len(p.src) {
			return nil, errors.Errorf("unterminated parameters of %q", name)
		}
		switch p.src[p.pos] {
		case ',':
		case '>':
			closed = true
		default:
			return nil, errors.Errorf("unexpected %q in parameters of %q", p.src[p.pos], name)
		}
		p.pos++
	}

	c, ok := t.(vtype.Composite)
	if !ok {
		return nil, errors.Errorf("%q takes no parameters", name)
	}
	if len(params) != len(c.Params()) {
		return nil, errors.Errorf("%q takes %d parameters, got %d", name, len(c.Params()), len(params))
	}
	return vtype.WithParams(c, params), nil
}
