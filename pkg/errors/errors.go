// Package errors provides coded errors for fixtures, the CLI and the
// playground server.
//
// The interaction engine itself (selection, layout, drag and drop) never
// returns errors for stale or missing keys; it degrades to a nil focus or a
// root drop target instead. Errors only appear at input boundaries.
//
// # Error Codes
//
// INVALID_* codes reject caller input (HTTP 400), *NOT_FOUND codes name a
// missing key, fixture or file (404), UNSUPPORTED marks a request the
// current driver cannot serve (501). Anything else is internal (500).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidColumnSize, "bad width %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidColumnSize) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFixture, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidColumnSize Code = "INVALID_COLUMN_SIZE"
	ErrCodeInvalidFixture    Code = "INVALID_FIXTURE"
	ErrCodeInvalidKey        Code = "INVALID_KEY"
	ErrCodeInvalidRect       Code = "INVALID_RECT"
	ErrCodeDuplicateKey      Code = "DUPLICATE_KEY"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:      400,
	ErrCodeInvalidColumnSize: 400,
	ErrCodeInvalidFixture:    400,
	ErrCodeInvalidKey:        400,
	ErrCodeInvalidRect:       400,
	ErrCodeDuplicateKey:      400,
	ErrCodeNotFound:          404,
	ErrCodeFileNotFound:      404,
	ErrCodeUnsupported:       501,
}

// Status returns the HTTP status of the code; unknown codes are 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return 500
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus returns the status the playground server answers err with.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
