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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Root and target validation errors
	ErrRootInvalid       ErrorCode = "ROOT_INVALID"
	ErrTargetOutsideRoot ErrorCode = "TARGET_OUTSIDE_ROOT"

	// Rule errors
	ErrRulesLoad    ErrorCode = "RULES_LOAD"
	ErrRuleInvalid  ErrorCode = "RULE_INVALID"
	ErrPathRelative ErrorCode = "PATH_RELATIVE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"

	// Content errors
	ErrSizeExceeded ErrorCode = "SIZE_EXCEEDED"
	ErrUndecodable  ErrorCode = "UNDECODABLE"
)

// CtxError represents a structured error with code and details
type CtxError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CtxError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CtxError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CtxError) Is(target error) bool {
	var targetErr *CtxError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CtxError with the given code and message
func New(code ErrorCode, message string) *CtxError {
	return &CtxError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CtxError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CtxError {
	return &CtxError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CtxError
func Wrap(err error, code ErrorCode, message string) *CtxError {
	if err == nil {
		return nil
	}
	return &CtxError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CtxError {
	if err == nil {
		return nil
	}
	return &CtxError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CtxError) WithDetail(key string, value interface{}) *CtxError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CtxError) WithDetails(details map[string]interface{}) *CtxError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ctxErr *CtxError
	if errors.As(err, &ctxErr) {
		return ctxErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CtxError
func GetErrorCode(err error) ErrorCode {
	var ctxErr *CtxError
	if errors.As(err, &ctxErr) {
		return ctxErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CtxError
func GetErrorDetails(err error) map[string]interface{} {
	var ctxErr *CtxError
	if errors.As(err, &ctxErr) {
		return ctxErr.Details
	}
	return nil
}

// IsHardStop reports whether err must abort a whole run. Only configuration
// and validation failures and the size limit propagate out of the engine.
func IsHardStop(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid,
		ErrRootInvalid, ErrTargetOutsideRoot, ErrInvalidInput, ErrSizeExceeded:
		return true
	}
	return false
}
