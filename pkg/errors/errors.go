// Package errors provides structured error types for glycodraw.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor core, CLI and HTTP host
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (including rejected drop targets)
//   - SLOT_CONFLICT: A decoration side is already occupied
//   - NOT_FOUND / *_NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Editor failures are recoverable: a gesture that fails with
// [ErrCodeSlotConflict] or [ErrCodeInvalidTarget] simply has no effect.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSlotConflict, "node %d already has an above decoration", id)
//	if errors.Is(err, errors.ErrCodeSlotConflict) {
//	    // discard the ghost
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidTarget Code = "INVALID_TARGET"
	ErrCodeInvalidKind   Code = "INVALID_KIND"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	// Structural conflicts
	ErrCodeSlotConflict  Code = "SLOT_CONFLICT"
	ErrCodeGestureActive Code = "GESTURE_ACTIVE"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeSessionNotFound  Code = "SESSION_NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsRecoverable reports whether err describes a rejected edit that leaves the
// document untouched (slot conflicts, invalid targets, missing nodes).
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeSlotConflict, ErrCodeInvalidTarget, ErrCodeNotFound:
		return true
	}
	return false
}
