// Package errors provides structured error types for partres.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// All resolution failures are deterministic: they are caused by the
// metadata or the configuration, never by the environment, so there is
// no retry machinery here. Part unavailability is deliberately not an
// error at all; it is a normal resolution outcome represented by a nil
// entry in a resolved table.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMetadata, "empty variant list for %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidMetadata) {
//	    // Handle metadata error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Metadata errors: an empty variant list, an unparseable dependency
	// spec, or a part name collision within one provider's table.
	ErrCodeInvalidMetadata Code = "INVALID_METADATA"

	// A dependency spec names a provider that is not part of the session.
	ErrCodeUnknownProvider Code = "UNKNOWN_PROVIDER"

	// An application root was declared by a provider but cannot be
	// supplied for the session's target and versions.
	ErrCodeMissingDependency Code = "MISSING_DEPENDENCY"

	// Configuration errors raised while interpreting input.
	ErrCodeInvalidTarget   Code = "INVALID_TARGET"
	ErrCodeInvalidVersion  Code = "INVALID_VERSION"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidOption   Code = "INVALID_OPTION"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
		return e.Message
	}
	return err.Error()
}
