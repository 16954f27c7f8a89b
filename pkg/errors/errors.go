// Package errors gives graphvis errors a machine-readable [Code] that
// survives wrapping, so the CLI can print a clean message and the HTTP API
// can choose a status without string matching.
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", name)
//	errors.Is(err, errors.ErrCodeInvalidFormat) // true
//
// Codes group as INVALID_* for rejected options and paths, PARSE_ERROR for
// adjacency lists that cannot be read, NOT_FOUND and CLOSED for viewer
// state, and INTERNAL_ERROR or UNSUPPORTED for everything the caller cannot
// fix by changing the request.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidEngine Code = "INVALID_ENGINE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeParse         Code = "PARSE_ERROR"

	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeClosed   Code = "CLOSED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a Code, a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
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

// UserMessage renders err without its code prefix.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}
