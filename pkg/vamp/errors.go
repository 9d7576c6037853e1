package vamp

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/williambl/vampilang/pkg/vtype"
)

// Describer is implemented by errors that can render their types with a
// namer.
type Describer interface {
	Describe(n *vtype.Namer) string
}

// ResolveErrors accumulates every failure found while resolving a tree.
type ResolveErrors struct {
	Errors []error
}

// Add records err. Joined errors and nested ResolveErrors are flattened.
func (re *ResolveErrors) Add(err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			re.Add(e)
		}
		return
	}
	re.Errors = append(re.Errors, err)
}

func (re *ResolveErrors) Unwrap() []error {
	return re.Errors
}

func (re *ResolveErrors) HasErrors() bool {
	return len(re.Errors) > 0
}

// Err returns re if it holds any errors, and nil otherwise.
func (re *ResolveErrors) Err() error {
	if !re.HasErrors() {
		return nil
	}
	return re
}

func (re *ResolveErrors) Describe(n *vtype.Namer) string {
	if len(re.Errors) == 0 {
		return "no errors"
	}
	if len(re.Errors) == 1 {
		return DescribeError(re.Errors[0], n)
	}
	var msgs []string
	for i, err := range re.Errors {
		msgs = append(msgs, fmt.Sprintf("Error %d:\n%s", i+1, DescribeError(err, n)))
	}
	return fmt.Sprintf("%d resolution errors:\n\n%s", len(re.Errors), strings.Join(msgs, "\n\n"))
}

func (re *ResolveErrors) Error() string {
	return re.Describe(vtype.NewNamer())
}

// DescribeError renders err with n when it knows how to, and falls back to
// Error otherwise.
func DescribeError(err error, n *vtype.Namer) string {
	if d, ok := err.(Describer); ok {
		return d.Describe(n)
	}
	return err.Error()
}

// MissingVariableError is returned when a variable is not declared in the
// Spec, or a Context binding is missing or has the wrong type.
type MissingVariableError struct {
	Name     string
	Declared vtype.Type
	Actual   vtype.Type
}

func (e *MissingVariableError) Describe(n *vtype.Namer) string {
	switch {
	case e.Declared == nil:
		return fmt.Sprintf("undeclared variable %q", e.Name)
	case e.Actual == nil:
		return fmt.Sprintf("variable %q of type %s is not bound", e.Name, e.Declared.Describe(n))
	default:
		return fmt.Sprintf("variable %q: expected %s, got %s", e.Name, e.Declared.Describe(n), e.Actual.Describe(n))
	}
}

func (e *MissingVariableError) Error() string {
	return e.Describe(vtype.NewNamer())
}

// NotConstructableError is returned when an object construction names a type
// that is not registered or is not an object type.
type NotConstructableError struct {
	TypeName   string
	Registered bool
}

func (e *NotConstructableError) Error() string {
	if !e.Registered {
		return fmt.Sprintf("unknown type %q", e.TypeName)
	}
	return fmt.Sprintf("type %q cannot be constructed", e.TypeName)
}

// MissingPropertyError is returned when an object construction lacks a
// property or supplies it at the wrong type.
type MissingPropertyError struct {
	TypeName string
	Property string
	Declared vtype.Type
	Actual   vtype.Type
}

func (e *MissingPropertyError) Describe(n *vtype.Namer) string {
	if e.Actual == nil {
		return fmt.Sprintf("%s: missing property %q of type %s", e.TypeName, e.Property, e.Declared.Describe(n))
	}
	return fmt.Sprintf("%s: property %q: expected %s, got %s", e.TypeName, e.Property, e.Declared.Describe(n), e.Actual.Describe(n))
}

func (e *MissingPropertyError) Error() string {
	return e.Describe(vtype.NewNamer())
}

// UnexpectedPropertyError is returned for a property the object schema does
// not declare.
type UnexpectedPropertyError struct {
	TypeName string
	Property string
}

func (e *UnexpectedPropertyError) Error() string {
	return fmt.Sprintf("%s: unexpected property %q", e.TypeName, e.Property)
}

// ListTypeError is returned when no element type can be inferred for a list.
type ListTypeError struct {
	Elements   []vtype.Type
	Candidates []vtype.Type
}

func (e *ListTypeError) Describe(n *vtype.Namer) string {
	if len(e.Elements) == 0 {
		return "cannot infer the element type of an empty list"
	}
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no registered type contains all list elements (%s)", describeAll(e.Elements, n))
	}
	return fmt.Sprintf("ambiguous list element type: %s", describeAll(e.Candidates, n))
}

func (e *ListTypeError) Error() string {
	return e.Describe(vtype.NewNamer())
}

// LambdaResultError is returned when a lambda body's type is not contained
// by the lambda's declared result type.
type LambdaResultError struct {
	Declared vtype.Type
	Actual   vtype.Type
}

func (e *LambdaResultError) Describe(n *vtype.Namer) string {
	return fmt.Sprintf("lambda body: expected %s, got %s", e.Declared.Describe(n), e.Actual.Describe(n))
}

func (e *LambdaResultError) Error() string {
	return e.Describe(vtype.NewNamer())
}

// FunctionError attributes a failure to the function application it was
// found in.
type FunctionError struct {
	Function string
	Err      error
}

func (e *FunctionError) Describe(n *vtype.Namer) string {
	return fmt.Sprintf("%s: %s", e.Function, DescribeError(e.Err, n))
}

func (e *FunctionError) Error() string {
	return e.Describe(vtype.NewNamer())
}

func (e *FunctionError) Unwrap() error {
	return e.Err
}

// UnknownFunctionError is returned by parsers that reference a function the
// Environment does not define.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// PreconditionError is panicked when evaluation is given a tree or Context
// that resolution should have ruled out.
type PreconditionError struct {
	err error
}

func preconditionf(format string, args ...any) *PreconditionError {
	return &PreconditionError{err: pkgerrors.Errorf(format, args...)}
}

func (e *PreconditionError) Error() string {
	return "evaluation precondition violated: " + e.err.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.err
}

// Format prints the stack trace of the violation with %+v.
func (e *PreconditionError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "evaluation precondition violated: %+v", e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// RuntimeError is panicked by native functions that cannot produce a value
// for well-typed arguments, such as an integer division by zero.
type RuntimeError struct {
	err error
}

// Raise aborts the current evaluation with a *RuntimeError.
func Raise(format string, args ...any) {
	panic(&RuntimeError{err: pkgerrors.Errorf(format, args...)})
}

func (e *RuntimeError) Error() string {
	return e.err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.err
}

func describeAll(ts []vtype.Type, n *vtype.Namer) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Describe(n)
	}
	return strings.Join(names, ", ")
}
