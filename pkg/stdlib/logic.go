package stdlib

import (
	"github.com/williambl/vampilang/pkg/vamp"
	"github.com/williambl/vampilang/pkg/vtype"
)

var (
	And = junction("and", false)
	Or  = junction("or", true)
)

var Not = vamp.NewFunction("not",
	vtype.NewSignature(types{"operand": Boolean}, Boolean),
	func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
		return vtype.ValueOf(Boolean, !vtype.MustPayload[bool](args.Get("operand")))
	})

// junction folds a list of booleans, stopping at the first operand equal to
// short.
func junction(name string, short bool) *vamp.FunctionDefinition {
	return vamp.NewFunction(name,
		vtype.NewSignature(types{"operands": ListOf(Boolean)}, Boolean),
		func(ctx *vamp.Context, sig *vtype.Signature, args *vamp.Args) vamp.Value {
			for _, op := range vtype.MustPayload[[]vtype.Value](args.Get("operands")) {
				if vtype.MustPayload[bool](op) == short {
					return vtype.ValueOf(Boolean, short)
				}
			}
			return vtype.ValueOf(Boolean, !short)
		})
}
