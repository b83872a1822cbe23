package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUsage        ErrorCode = "USAGE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrManifest    ErrorCode = "MANIFEST_INVALID"

	// Template errors
	ErrTemplateRead       ErrorCode = "TEMPLATE_READ"
	ErrUnrecognizedFormat ErrorCode = "UNRECOGNIZED_FORMAT"

	// Secret resolution errors
	ErrMissingSecret   ErrorCode = "MISSING_SECRET"
	ErrExternalTimeout ErrorCode = "EXTERNAL_TIMEOUT"
	ErrNotSignedIn     ErrorCode = "NOT_SIGNED_IN"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrWriteFailure ErrorCode = "WRITE_FAILURE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// OpfillError represents a structured error with code and details
type OpfillError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OpfillError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OpfillError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OpfillError) Is(target error) bool {
	var targetErr *OpfillError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OpfillError with the given code and message
func New(code ErrorCode, message string) *OpfillError {
	return &OpfillError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OpfillError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OpfillError {
	return &OpfillError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OpfillError
func Wrap(err error, code ErrorCode, message string) *OpfillError {
	if err == nil {
		return nil
	}
	return &OpfillError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OpfillError {
	if err == nil {
		return nil
	}
	return &OpfillError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OpfillError) WithDetail(key string, value interface{}) *OpfillError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var opErr *OpfillError
	if errors.As(err, &opErr) {
		return opErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OpfillError
func GetErrorCode(err error) ErrorCode {
	var opErr *OpfillError
	if errors.As(err, &opErr) {
		return opErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an OpfillError
func GetErrorDetails(err error) map[string]interface{} {
	var opErr *OpfillError
	if errors.As(err, &opErr) {
		return opErr.Details
	}
	return nil
}
