package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError with the same code and message, so a
// sentinel still matches after NewDomainErrorWithCause attached a cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches cause to a copy of sentinel.
func Wrap(sentinel *DomainError, cause error) *DomainError {
	return NewDomainErrorWithCause(sentinel.Code, sentinel.Message, cause)
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
)

// Validation errors
var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrEmptyText            = NewDomainError(ErrCodeValidation, "text cannot be empty")
	ErrWrongDimensions      = NewDomainError(ErrCodeValidation, "embedding has wrong dimensions")
	ErrNoModels             = NewDomainError(ErrCodeValidation, "at least one model is required")
)

// Collaborator errors
var (
	ErrStorageOperationFail = NewDomainError(ErrCodeInternalError, "storage operation failed")
	ErrModelUnavailable     = NewDomainError(ErrCodeUpstream, "model backend unavailable")
)
