// Package errors provides coded errors shared by the layout core, the CLI
// and the HTTP API. The server maps codes to status codes; the layout
// driver uses them to decide whether a failed step is fatal.
//
// # Error Codes
//
//   - INVALID_*: Input or configuration validation failures
//   - MISSING_DATA / NOT_FOUND: Referenced data does not exist
//   - STARVATION, ITERATION_LIMIT, BUSY: Layout outcomes the caller must handle
//   - NETWORK_*: Dataset fetch failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingData, "unknown planet %q on leyline %s", name, id)
//	if errors.Is(err, errors.ErrCodeMissingData) {
//	    // Abort the layout attempt
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidCriteria  Code = "INVALID_CRITERIA"
	ErrCodeInvalidTimeframe Code = "INVALID_TIMEFRAME"
	ErrCodeInvalidPlanet    Code = "INVALID_PLANET"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeMissingData  Code = "MISSING_DATA"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Layout outcomes
	ErrCodeStarvation     Code = "STARVATION"
	ErrCodeIterationLimit Code = "ITERATION_LIMIT"
	ErrCodeBusy           Code = "BUSY"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error implements error so a bare Code can be matched with the standard
// library: stderrors.Is(err, errors.ErrCodeBusy).
func (c Code) Error() string { return string(c) }

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

// Is matches a target Code, or another *Error with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return e.Code == t
	case *Error:
		return e.Code == t.Code
	}
	return false
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error carrying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. Errors that
// carry no code are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Recoverable reports whether err leaves the caller free to continue with
// different criteria. Missing-data faults and unknown errors are fatal.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidCriteria, ErrCodeStarvation, ErrCodeIterationLimit:
		return true
	}
	return false
}
