// Package errors provides standardized error handling for the document
// generation pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Template / mapping errors
	ErrCodeTemplateInvalid   ErrorCode = "TEMPLATE_INVALID"
	ErrCodeMappingIncomplete ErrorCode = "MAPPING_INCOMPLETE"

	// Rendering errors
	ErrCodeNoSubstitutionsApplied ErrorCode = "NO_SUBSTITUTIONS_APPLIED"
	ErrCodeRenderFailure          ErrorCode = "RENDER_FAILURE"
	ErrCodeInvalidDocumentContent ErrorCode = "INVALID_DOCUMENT_CONTENT"

	// Collaborator errors
	ErrCodeDataUnavailable   ErrorCode = "DATA_UNAVAILABLE"
	ErrCodeImageFetchFailure ErrorCode = "IMAGE_FETCH_FAILURE"
	ErrCodeStorageFailure    ErrorCode = "STORAGE_FAILURE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewTemplateInvalidError creates a non-retryable error for an empty or
// corrupt source template.
func NewTemplateInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateInvalid,
		Message:   "template content is empty or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMappingIncompleteError creates a non-retryable error for a mapping table
// that failed validation before rendering.
func NewMappingIncompleteError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMappingIncomplete,
		Message:   "mapping incomplete",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoSubstitutionsAppliedError creates a non-retryable error for a fallback
// substitution pass that matched nothing.
func NewNoSubstitutionsAppliedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoSubstitutionsApplied,
		Message:   "no substitutions applied to template text",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderFailureError creates a non-retryable error for a decode/encode
// failure inside a format renderer.
func NewRenderFailureError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailure,
		Message:   "format renderer failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidDocumentContentError creates a non-retryable error for a
// structural content check failure, post-render or pre-download.
func NewInvalidDocumentContentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidDocumentContent,
		Message:   "document content failed structural validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataUnavailableError creates a retryable error for a failed downstream
// record fetch.
func NewDataUnavailableError(category, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataUnavailable,
		Message:   "business data fetch failed",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"category": category},
		Timestamp: time.Now().UTC(),
	}
}

// NewImageFetchFailureError creates a retryable error naming the image
// reference whose fetch aborted the photo report.
func NewImageFetchFailureError(reference, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeImageFetchFailure,
		Message:   fmt.Sprintf("image fetch failed for %s", reference),
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"reference": reference},
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailureError creates a retryable error for a storage-layer
// failure. The pipeline reports it without retrying automatically.
func NewStorageFailureError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailure,
		Message:   "storage operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// AsStandardError unwraps err into a *StandardError when possible.
func AsStandardError(err error) (*StandardError, bool) {
	var se *StandardError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// GetErrorCode extracts the ErrorCode from an error chain; unknown errors
// report a generic code.
func GetErrorCode(err error) ErrorCode {
	if se, ok := AsStandardError(err); ok {
		return se.Code
	}
	return "UNKNOWN_ERROR"
}

// IsRetryable reports whether the failure is worth a caller-driven retry.
func IsRetryable(err error) bool {
	if se, ok := AsStandardError(err); ok {
		return se.Retryable
	}
	return false
}
