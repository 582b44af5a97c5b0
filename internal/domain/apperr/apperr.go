// Package apperr defines the closed set of error kinds returned by the
// domain layer. Transport code maps kinds to status codes; nothing inspects
// error text.
package apperr

import "errors"

type Kind uint8

const (
	Internal Kind = iota
	NotFound
	Conflict
	Forbidden
	CapacityExceeded
	ValidationFailed
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Forbidden:
		return "forbidden"
	case CapacityExceeded:
		return "capacity_exceeded"
	case ValidationFailed:
		return "validation_failed"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Validation builds an ad-hoc ValidationFailed error.
func Validation(code, message string) *Error {
	return New(ValidationFailed, code, message)
}

// As returns the first *Error in the chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
