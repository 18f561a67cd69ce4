package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeValidation, "bad input")
	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())
}

func TestDomainError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDomainErrorWithCause(ErrCodeGenerationFailure, "completion request failed", cause)

	assert.Contains(t, err.Error(), "GENERATION_FAILURE")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestNewDimensionMismatch(t *testing.T) {
	err := NewDimensionMismatch(1024, 8)
	assert.Equal(t, ErrCodeDimensionMismatch, err.Code)
	assert.Contains(t, err.Error(), "1024")
	assert.Contains(t, err.Error(), "8")
}

func TestNewIngestionFailure(t *testing.T) {
	cause := errors.New("truncated file")
	err := NewIngestionFailure("data/pdfs/ai.pdf", cause)

	assert.Equal(t, ErrCodeIngestionFailure, err.Code)
	assert.Contains(t, err.Error(), "data/pdfs/ai.pdf")
	assert.True(t, errors.Is(err, cause))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidConfiguration, ErrorCode(ErrInvalidChunking))
	assert.Equal(t, ErrCodeValidation, ErrorCode(ErrEmptyQuestion))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, "", ErrorCode(nil))

	wrapped := NewGenerationFailure(errors.New("boom"))
	assert.Equal(t, ErrCodeGenerationFailure, ErrorCode(wrapped))
}
