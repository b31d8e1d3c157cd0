// ABOUTME: Error taxonomy shared by the write pipeline, read assembler and transports.
// ABOUTME: Classifies failures as input, auth, ownership, missing-record or store errors.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindInternal is anything that was not classified.
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindStoreFailure
)

// String returns the wire code for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindStoreFailure:
		return "store_failure"
	default:
		return "internal"
	}
}

// ErrDuplicateOrder is wrapped by invalid-input errors raised when two
// children of the same parent share an order value.
var ErrDuplicateOrder = errors.New("duplicate order")

// Error is a classified failure. Step names the pipeline step for store
// failures so callers know how far a request got before it stopped.
type Error struct {
	Kind Kind
	Step string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Step != "" {
		msg = e.Step + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput reports a missing or malformed field.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// DuplicateOrder reports an order collision on the named field.
func DuplicateOrder(field string, value int) *Error {
	return &Error{
		Kind: KindInvalidInput,
		Msg:  fmt.Sprintf("%s %d is used more than once", field, value),
		Err:  ErrDuplicateOrder,
	}
}

// Unauthorized reports a missing or unusable credential.
func Unauthorized(msg string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg, Err: err}
}

// Forbidden reports a valid caller touching someone else's record.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent record.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Store wraps a record store failure at the given step.
func Store(step string, err error) *Error {
	return &Error{Kind: KindStoreFailure, Step: step, Msg: "store call failed", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StepOf returns the failed step recorded on err, if any.
func StepOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Step
	}
	return ""
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
