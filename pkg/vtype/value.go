package vtype

import (
	"fmt"
)

// Value is a runtime value: a payload tagged with its type.
type Value struct {
	Type    Type
	Payload any
}

// NewValue wraps payload as a value of type t, checking that t accepts it.
func NewValue(t Type, payload any, u Universe) (Value, error) {
	if !t.Accepts(payload, u) {
		return Value{}, fmt.Errorf("%v (%T) is not a value of type %s", payload, payload, t)
	}
	return Value{Type: t, Payload: payload}, nil
}

// ValueOf wraps payload without validation.
func ValueOf(t Type, payload any) Value {
	return Value{Type: t, Payload: payload}
}

// Payload returns the value's payload as a T.
func Payload[T any](v Value) (T, bool) {
	p, ok := v.Payload.(T)
	return p, ok
}

// MustPayload returns the value's payload as a T, panicking if it is not
// one.
func MustPayload[T any](v Value) T {
	p, ok := v.Payload.(T)
	if !ok {
		panic(fmt.Sprintf("payload %v (%T) of %s is not a %T", v.Payload, v.Payload, v.Type, p))
	}
	return p
}

func (v Value) String() string {
	return fmt.Sprintf("%v : %s", v.Payload, v.Type)
}
