// Package errors provides structured error types for categorycloud.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-facing detail (a category name, a parameter) kept apart from the message
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The three render conditions a wiki author can cause are reported in place
// of the cloud:
//   - MISSING_CATEGORY: no category argument was supplied
//   - EMPTY_CATEGORY: the category has no subcategories with members
//   - MALFORMED_PARAMETER: a key=value argument could not be parsed
//
// Everything else (STORE_ERROR, INTERNAL_ERROR, ...) is an operational
// failure and propagates to the caller.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyCategory, "category %q is empty", name).WithDetail(name)
//	if errors.Is(err, errors.ErrCodeEmptyCategory) {
//	    // Report to the author
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "query subcategories of %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Author-facing render conditions
	ErrCodeMissingCategory    Code = "MISSING_CATEGORY"
	ErrCodeEmptyCategory      Code = "EMPTY_CATEGORY"
	ErrCodeMalformedParameter Code = "MALFORMED_PARAMETER"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Backend errors
	ErrCodeStore Code = "STORE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Detail  string // User-facing detail, e.g. the offending parameter text
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

// WithDetail sets the user-facing detail and returns e.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
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
// Only the outermost *Error in the chain is inspected.
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

// GetDetail extracts the user-facing detail from an error, if available.
func GetDetail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
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

// IsReportable reports whether err is one of the render conditions that are
// shown to the page author instead of the cloud.
func IsReportable(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingCategory, ErrCodeEmptyCategory, ErrCodeMalformedParameter:
		return true
	}
	return false
}
