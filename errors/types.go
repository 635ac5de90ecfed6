package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Edit-set errors
	ErrCodeEmptyEditSet        ErrorCode = "EDIT_SET_EMPTY"
	ErrCodeLineCountUnresolved ErrorCode = "LINE_COUNT_UNRESOLVED"

	// Provider errors
	ErrCodeProviderRefused ErrorCode = "PROVIDER_REFUSED"
	ErrCodeProviderFailed  ErrorCode = "PROVIDER_FAILED"

	// Editor integration errors
	ErrCodeNvimUnreachable ErrorCode = "NVIM_UNREACHABLE"
	ErrCodeRenderFailed    ErrorCode = "RENDER_FAILED"
	ErrCodeSaveFailed      ErrorCode = "SAVE_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// RefactorError represents a structured error with context
type RefactorError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *RefactorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RefactorError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *RefactorError) WithDetail(key string, value interface{}) *RefactorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *RefactorError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new RefactorError
func New(code ErrorCode, message string) *RefactorError {
	return &RefactorError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a RefactorError
func Wrap(err error, code ErrorCode, message string) *RefactorError {
	return &RefactorError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific RefactorError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	refErr, ok := err.(*RefactorError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return refErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	refErr, ok := err.(*RefactorError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return refErr.Code
}
