package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a business rule violation with a stable code.
// Details carries structured context (e.g. the offending status and
// operation) that the HTTP layer serializes into the error response.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithDetails creates a new domain error carrying structured context
func NewDomainErrorWithDetails(code, message string, details map[string]any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WithDetail returns a copy of the error with an extra detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// Stable error codes shared by the domain and the HTTP layer
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeOverReceipt         = "OVER_RECEIPT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(ErrCodeNotFound, "resource not found")
	ErrConcurrencyConflict = NewDomainError(ErrCodeConcurrencyConflict, "resource was modified by another request")
)

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrCodeNotFound
	}
	return false
}

// IsConcurrencyConflict reports whether err is an optimistic locking conflict
func IsConcurrencyConflict(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrCodeConcurrencyConflict
	}
	return false
}
