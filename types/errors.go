package types

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable kind of a failure. The caller
// layer maps these onto transport-level responses.
type ErrorCode string

const (
	CodeInvalidItemType ErrorCode = "INVALID_ITEM_TYPE"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeInvalidRange    ErrorCode = "INVALID_RANGE"
	CodeStoreFailure    ErrorCode = "STORE_FAILURE"
)

// Error provides structured error information: a machine-readable
// code, a human-readable reason, and optional detail fields.
type Error struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string, details map[string]interface{}) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// Errorf creates a structured error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code and message to an underlying cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Untyped errors report as STORE_FAILURE, the catch-all for
// persistence problems that were not classified at the source.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStoreFailure
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
