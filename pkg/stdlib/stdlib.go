// Package stdlib provides the standard types and functions of the language.
package stdlib

import (
	"log/slog"

	"github.com/williambl/vampilang/pkg/vamp"
)

// Functions lists every standard function.
var Functions = []*vamp.FunctionDefinition{
	IfElse, Match,
	Equals, NotEquals,
	LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual,
	MapOptional, UnwrapOptional, Head,
	And, Or, Not,
	Add, Subtract, Multiply, Divide, Modulo, Power, Max, Min,
	Absolute, Negate,
	SquareRoot, Sine, Cosine, Tangent,
	Polynomial, ToDouble,
}

// Register adds the standard types and functions to env.
func Register(env *vamp.Environment) {
	RegisterTypes(env)
	for _, fn := range Functions {
		env.RegisterFunction(fn)
	}
	slog.Debug("registered standard library", "functions", len(Functions))
}

// NewEnvironment returns a frozen Environment holding only the standard
// library.
func NewEnvironment() *vamp.Environment {
	env := vamp.NewEnvironment()
	Register(env)
	return env.Freeze()
}
