// Package errors defines the error taxonomy shared by the API and the
// workers. Every failure that crosses a package boundary is tagged with a
// Code; the response layer maps codes to HTTP statuses and decides what is
// safe to show a client.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeInternal   Code = "INTERNAL_ERROR"
	CodeDependency Code = "DEPENDENCY_ERROR"
)

// Error carries a code, an operator-facing message, and optionally a cause
// plus structured details for the response body.
type Error struct {
	code    Code
	msg     string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, msg: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// degrades to New.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, msg: message, cause: err}
}

func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// WithDetails sets the payload surfaced to clients when the code permits
// details. Keys should be snake_case to match the rest of the API.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.msg
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// Error renders the code, the message, and the cause chain when one exists.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As walks err's chain and returns the first *Error, or nil when the chain
// carries none.
func As(err error) *Error {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed
	}
	return nil
}

// Metadata describes how a code is rendered over HTTP.
type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	DetailsAllowed bool
}

// MetadataFor maps a code to its HTTP rendering. Unknown codes render as
// internal errors rather than leaking anything.
func MetadataFor(code Code) Metadata {
	switch code {
	case CodeValidation:
		return Metadata{HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed", DetailsAllowed: true}
	case CodeNotFound:
		return Metadata{HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found"}
	case CodeConflict:
		return Metadata{HTTPStatus: http.StatusConflict, PublicMessage: "conflict detected"}
	case CodeDependency:
		return Metadata{HTTPStatus: http.StatusServiceUnavailable, PublicMessage: "dependency unavailable", DetailsAllowed: true}
	default:
		return Metadata{HTTPStatus: http.StatusInternalServerError, PublicMessage: "internal server error"}
	}
}
