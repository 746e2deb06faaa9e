package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Extraction specific errors
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrGenerationFailed  ErrorCode = "GENERATION_FAILED"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// ErrOCRUnavailable signals that the OCR engine itself is missing, as opposed
// to a single image failing recognition. Callers may stop attempting OCR for
// the rest of the document once they see it.
var ErrOCRUnavailable = errors.New("ocr engine unavailable")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewUnsupportedFormatError is raised when a filename carries an extension the
// extractor does not recognize. It names the offending file and is never retried.
func NewUnsupportedFormatError(filename string) *DomainError {
	return NewError(ErrUnsupportedFormat, fmt.Sprintf("Unsupported file type: %s", filename), nil)
}

// NewGenerationFailedError wraps a failed remote generation call. There is no
// partial result to salvage, so this propagates to the caller as a hard failure.
func NewGenerationFailedError(err error) *DomainError {
	return NewError(ErrGenerationFailed, "Failed to generate questions with LLM service", err)
}
