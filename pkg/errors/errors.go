// Package errors defines the coded errors shared by the fixturefit
// packages, the CLI and the HTTP API.
//
// Every failure a caller can act on carries a [Code]. Codes are grouped
// into classes: input problems the caller must fix, missing resources,
// search outcomes and internal faults. The CLI turns the class into an
// exit status and the server into an HTTP status.
//
//	err := errors.New(errors.ErrCodeInvalidRoom, "room width must be positive, got %d", w)
//	errors.Is(err, errors.ErrCodeInvalidRoom)   // true
//	stderrors.Is(err, errors.ErrCodeInvalidRoom) // also true: Code is an error
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code. A Code is itself an error, so it
// can be the target of errors.Is.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidRoom    Code = "INVALID_ROOM"
	ErrCodeInvalidOpening Code = "INVALID_OPENING"
	ErrCodeInvalidCatalog Code = "INVALID_CATALOG"
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"
	ErrCodeUnknownFixture Code = "UNKNOWN_FIXTURE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// ErrCodeInfeasible means no requested fixture could be placed.
	ErrCodeInfeasible Code = "INFEASIBLE_LAYOUT"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Class groups codes by who has to act on them.
type Class int

const (
	ClassInternal Class = iota
	ClassInput
	ClassMissing
	ClassOutcome
)

var classes = map[Code]Class{
	ErrCodeInvalidInput:   ClassInput,
	ErrCodeInvalidRoom:    ClassInput,
	ErrCodeInvalidOpening: ClassInput,
	ErrCodeInvalidCatalog: ClassInput,
	ErrCodeInvalidOptions: ClassInput,
	ErrCodeUnknownFixture: ClassInput,
	ErrCodeNotFound:       ClassMissing,
	ErrCodeFileNotFound:   ClassMissing,
	ErrCodeInfeasible:     ClassOutcome,
}

func (c Code) Error() string { return string(c) }

// Class returns the class of c. Unknown codes are internal.
func (c Code) Class() Class { return classes[c] }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match an *Error against its Code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
// Unlike errors.Is it does not look past that first coded error, so
// re-coding a wrapped error replaces its meaning.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ClassOf returns the class of err's code.
func ClassOf(err error) Class { return GetCode(err).Class() }

// UserMessage returns the message of a coded error without its code
// prefix, or err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInputError reports whether err must be fixed by changing the request.
func IsInputError(err error) bool { return ClassOf(err) == ClassInput }
