/*
 * javelin - a from-scratch JVM-compatible bytecode engine
 */

// Package internalerror models the "implementation bug or unimplemented
// path" half of the two disjoint error universes described in spec.md §7.
// These errors are never eligible for the Java exception-table search;
// they unwind unconditionally.
package internalerror

import "fmt"

type Kind int

const (
	CodeNotFound Kind = iota
	MethodNotFound
	FieldNotFound
	FrameNotFound
	ClassNotFoundInternal
	NativeNotImplemented
	WrongType
	WrongInstance
	WrongClass
	NotImplemented
	General
)

func (k Kind) String() string {
	switch k {
	case CodeNotFound:
		return "CodeNotFound"
	case MethodNotFound:
		return "MethodNotFound"
	case FieldNotFound:
		return "FieldNotFound"
	case FrameNotFound:
		return "FrameNotFound"
	case ClassNotFoundInternal:
		return "ClassNotFoundInternal"
	case NativeNotImplemented:
		return "NativeNotImplemented"
	case WrongType:
		return "WrongType"
	case WrongInstance:
		return "WrongInstance"
	case WrongClass:
		return "WrongClass"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "General"
	}
}

// Error is the concrete internal-error value. Owner/Name/Descriptor are
// only populated for NativeNotImplemented; Expected/Actual only for the
// Wrong* kinds.
type Error struct {
	Kind       Kind
	Message    string
	Owner      string
	Name       string
	Descriptor string
	Expected   string
	Actual     string
}

func (e *Error) Error() string {
	switch e.Kind {
	case NativeNotImplemented:
		return fmt.Sprintf("%s: native method not implemented: %s.%s%s", e.Kind, e.Owner, e.Name, e.Descriptor)
	case WrongType, WrongInstance, WrongClass:
		return fmt.Sprintf("%s: expected %s, got %s", e.Kind, e.Expected, e.Actual)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Message)
		}
		return e.Kind.String()
	}
}

func New(k Kind, msg string) error { return &Error{Kind: k, Message: msg} }

func NewCodeNotFound(msg string) error     { return New(CodeNotFound, msg) }
func NewMethodNotFound(msg string) error   { return New(MethodNotFound, msg) }
func NewFieldNotFound(msg string) error    { return New(FieldNotFound, msg) }
func NewFrameNotFound(msg string) error    { return New(FrameNotFound, msg) }
func NewNotImplemented(msg string) error   { return New(NotImplemented, msg) }
func NewGeneral(msg string) error          { return New(General, msg) }

func NewNativeNotImplemented(owner, name, descriptor string) error {
	return &Error{Kind: NativeNotImplemented, Owner: owner, Name: name, Descriptor: descriptor}
}

func NewWrongType(expected, actual string) error {
	return &Error{Kind: WrongType, Expected: expected, Actual: actual}
}

func NewWrongInstance(expected, actual string) error {
	return &Error{Kind: WrongInstance, Expected: expected, Actual: actual}
}

func NewWrongClass(expected, actual string) error {
	return &Error{Kind: WrongClass, Expected: expected, Actual: actual}
}

// Is reports whether err is an *Error of the given kind, the way callers
// in the interpreter branch on error taxonomy without string matching.
func Is(err error, k Kind) bool {
	ie, ok := err.(*Error)
	return ok && ie.Kind == k
}
