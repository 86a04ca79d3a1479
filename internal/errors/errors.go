// Package errors defines the structured API error shape and the core failure
// taxonomy: ParseFailure aborts a run, AnalysisFailure isolates a detection
// pass, FixConflict skips a fix, ValidationFailure surfaces as CRITICAL
// issue data. Only ParseFailure and unexpected internal errors ever reach
// the transport layer.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// Predefined error values for common scenarios.
var (
	ErrInvalidRequest    = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed  = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrUnsupportedFormat = New(http.StatusBadRequest, "UNSUPPORTED_FORMAT", "File format not supported")
	ErrFileTooLarge      = New(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
	ErrDatasetNotFound   = New(http.StatusNotFound, "DATASET_NOT_FOUND", "Dataset not found or expired")
	ErrParseFailed       = New(http.StatusUnprocessableEntity, "PARSE_FAILED", "Input file could not be parsed")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrPipelineFailed    = New(http.StatusInternalServerError, "PIPELINE_FAILED", "Pipeline execution failed")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// ValidationError represents one invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// ParseFailure wraps a parse-stage failure with its cause.
func ParseFailure(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "PARSE_FAILED", "Input file could not be parsed", err.Error())
}

// DatasetNotFound names the missing dataset.
func DatasetNotFound(id string) *APIError {
	return NewWithDetails(http.StatusNotFound, "DATASET_NOT_FOUND",
		fmt.Sprintf("dataset %s not found or expired", id), id)
}

// InternalError wraps an unexpected failure, attributing the pipeline stage
// when one is known.
func InternalError(stage string, err error) *APIError {
	if stage == "" {
		return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
	}
	return NewWithDetails(http.StatusInternalServerError, "PIPELINE_FAILED",
		fmt.Sprintf("pipeline failed in stage %s", stage), err.Error())
}
