// Package errors defines the structured application error type used across
// the ReceiptForge service. Errors carry an error code, an HTTP status, and
// optional per-field details so handlers can map them directly onto API
// responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/receiptforge/receiptforge/pkg/constants"
)

// AppError represents a structured application error.
type AppError struct {
	Code       constants.ErrorCode
	HTTPStatus int
	Message    string
	// Details maps field names to human-readable reasons. Populated by
	// validation failures so an editing surface can highlight the exact
	// offending control.
	Details map[string]string
	cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain support.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.cause = cause
	return e
}

// WithDetail adds a field-scoped detail message.
func (e *AppError) WithDetail(field, reason string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[field] = reason
	return e
}

// New creates an AppError with the given code, status and message.
func New(code constants.ErrorCode, httpStatus int, message string) *AppError {
	return &AppError{
		Code:       code,
		HTTPStatus: httpStatus,
		Message:    message,
	}
}

// ================================================================================
// Common constructors
// ================================================================================

// ErrInternal wraps an unexpected failure.
func ErrInternal(message string) *AppError {
	return New(constants.ErrCodeInternal, http.StatusInternalServerError, message)
}

// ErrInvalidRequest reports a malformed or unprocessable request.
func ErrInvalidRequest(message string) *AppError {
	return New(constants.ErrCodeInvalidRequest, http.StatusBadRequest, message)
}

// ErrNotFound reports a missing resource.
func ErrNotFound(resource, id string) *AppError {
	return New(constants.ErrCodeNotFound, http.StatusNotFound,
		fmt.Sprintf("%s %q not found", resource, id))
}

// ErrConflict reports a uniqueness or state conflict.
func ErrConflict(message string) *AppError {
	return New(constants.ErrCodeConflict, http.StatusConflict, message)
}

// ErrValidation reports one or more field-scoped validation failures.
func ErrValidation(message string) *AppError {
	return New(constants.ErrCodeValidation, http.StatusUnprocessableEntity, message)
}

// ErrRateLimited reports an exhausted quota. retryAfterSeconds is surfaced
// so the HTTP layer can emit a Retry-After header.
func ErrRateLimited(retryAfterSeconds int) *AppError {
	e := New(constants.ErrCodeRateLimitExceeded, http.StatusTooManyRequests, "too many requests")
	return e.WithDetail("retry_after_seconds", fmt.Sprintf("%d", retryAfterSeconds))
}

// ErrServiceUnavailable reports a failed dependency.
func ErrServiceUnavailable(message string) *AppError {
	return New(constants.ErrCodeServiceUnavailable, http.StatusServiceUnavailable, message)
}

// ErrDatabaseOperation is the sentinel wrapped by repository failures.
var ErrDatabaseOperation = New(constants.ErrCodeInternal, http.StatusInternalServerError, "database operation failed")

// AsAppError extracts an *AppError from an error chain, or wraps the error
// as an internal failure when it is not one.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal("unexpected error").WithCause(err)
}
