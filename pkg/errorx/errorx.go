// Package errorx provides a coded error type for mapping internal failures
// onto stable HTTP status codes and machine-readable error codes at the
// handler boundary, without leaking stack traces to callers.
package errorx

import (
	"errors"
	"fmt"
)

// Code identifies a class of error. Handlers map Codes to HTTP statuses;
// callers should switch on Code, never on the message string.
type Code struct {
	Status  int    // HTTP status to report
	Message string // default human-readable message
}

// Error is a coded error wrapping an optional cause.
type Error struct {
	Code  Code
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// WithCode builds an Error from a Code with a formatted message, no cause.
func WithCode(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// WrapC wraps an existing error with a Code and a formatted message.
func WrapC(err error, code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Cause: err}
}

// FromError extracts the Code from err if it is (or wraps) an *Error, else
// returns the fallback code.
func FromError(err error, fallback Code) Code {
	if err == nil {
		return Code{}
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return fallback
}
