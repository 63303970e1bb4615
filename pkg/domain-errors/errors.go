// Package domainerrors carries the error taxonomy shared by services and the
// HTTP layer. Services wrap infrastructure failures with a Code so handlers can
// translate them without knowing where they came from.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest          Code = "bad_request"
	CodeInvalidInput        Code = "invalid_input"
	CodeValidation          Code = "validation_error"
	CodeInvariantViolation  Code = "invariant_violation"
	CodeUnauthorized        Code = "unauthorized"
	CodeForbidden           Code = "forbidden"
	CodeNotFound            Code = "not_found"
	CodeConflict            Code = "conflict"
	CodeInvalidOperation    Code = "invalid_operation"
	CodeLimitExceeded       Code = "limit_exceeded"
	CodeNoOfficersAvailable Code = "no_officers_available"
	CodeTimeout             Code = "timeout"
	CodeInternal            Code = "internal_error"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether the outermost coded error in err's chain has code.
func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// CodeOf returns the code of the outermost coded error in err's chain.
func CodeOf(err error) (Code, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}
