// Package errors provides structured error types for homcount.
//
// Every error that crosses a package boundary carries a [Code] so callers
// can tell malformed input apart from broken engine contracts:
//   - INVALID_*: input files, expressions or flags that cannot be used
//   - INVARIANT_VIOLATION: the DP engine found a state that a nice
//     decomposition can never produce
//   - ARITHMETIC_RANGE: codec or bitmask arithmetic outside its domain
//   - CACHE_ERROR, STORAGE_ERROR: backing services failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "line %d: unknown node type %q", n, kind)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // report and exit before running the engine
//	}
//
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save run %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidMode   Code = "INVALID_MODE"

	// Engine contract errors
	ErrCodeInvariant       Code = "INVARIANT_VIOLATION"
	ErrCodeArithmeticRange Code = "ARITHMETIC_RANGE"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backing services
	ErrCodeCache   Code = "CACHE_ERROR"
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Line    int    // 1-based input line for format errors, 0 if unknown
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// FormatErrorf creates an INVALID_FORMAT error pinned to an input line.
func FormatErrorf(line int, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidFormat,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

// Is reports whether any *Error in err's chain carries code, so an engine
// error stays recognizable after the pipeline wraps it.
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Line > 0 {
			return fmt.Sprintf("line %d: %s", e.Line, e.Message)
		}
		return e.Message
	}
	return err.Error()
}

// Exit statuses returned by [ExitCode].
const (
	ExitFailure = 1 // backing services, I/O and uncategorized errors
	ExitInput   = 2 // unusable input files, expressions or flags
	ExitEngine  = 3 // engine contract or arithmetic range violations
)

// ExitCode maps an error to a process exit status. A nil error maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case ErrCodeInvalidFormat, ErrCodeInvalidInput, ErrCodeInvalidMode, ErrCodeFileNotFound:
		return ExitInput
	case ErrCodeInvariant, ErrCodeArithmeticRange:
		return ExitEngine
	default:
		return ExitFailure
	}
}
