package domain

import (
	"errors"
	"fmt"
)

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

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
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

// Common domain error codes
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeInvalidConfiguration = "INVALID_CONFIGURATION"
	ErrCodeIngestionFailure     = "INGESTION_FAILURE"
	ErrCodeDimensionMismatch    = "DIMENSION_MISMATCH"
	ErrCodeGenerationFailure    = "GENERATION_FAILURE"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

var (
	// ErrInvalidChunking reports chunking parameters that violate
	// chunk_size > chunk_overlap >= 0. Fatal at construction.
	ErrInvalidChunking = NewDomainError(ErrCodeInvalidConfiguration, "chunk size must be greater than chunk overlap")

	// ErrEmptyQuestion is returned when ask is called with a blank question.
	ErrEmptyQuestion = NewDomainError(ErrCodeValidation, "question cannot be empty")
)

// NewDimensionMismatch reports an embedding whose length disagrees with
// the index dimension. Always signals an embedder misconfiguration.
func NewDimensionMismatch(want, got int) *DomainError {
	return NewDomainError(ErrCodeDimensionMismatch, fmt.Sprintf("expected embedding dimension %d, got %d", want, got))
}

// NewIngestionFailure reports a single document that failed to load or
// parse. Callers skip the document and continue.
func NewIngestionFailure(source string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeIngestionFailure, fmt.Sprintf("failed to ingest %s", source), err)
}

// NewGenerationFailure wraps a completion-backend error (network, auth,
// quota). Not retried by the core.
func NewGenerationFailure(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeGenerationFailure, "completion request failed", err)
}

// ErrorCode extracts the domain error code from err, or empty string if
// err is not a DomainError.
func ErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
