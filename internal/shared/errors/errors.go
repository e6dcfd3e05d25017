package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common error types
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
	ErrValidation      = errors.New("validation error")
	ErrInvalidCriteria = errors.New("invalid search criteria")
	ErrInvalidDate     = errors.New("invalid date")
	ErrDuplicate       = errors.New("duplicate record")
	ErrStorage         = errors.New("storage error")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	HTTPStatus int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not found error
func NotFound(resource string, id string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Code:       "NOT_FOUND",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"resource": resource, "id": id},
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		Code:       "BAD_REQUEST",
		HTTPStatus: http.StatusBadRequest,
	}
}

// Validation creates a validation error with field details
func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// InvalidCriteria signals a search request with no usable field
func InvalidCriteria() *AppError {
	return &AppError{
		Err:        ErrInvalidCriteria,
		Message:    "please provide at least one search criteria",
		Code:       "INVALID_CRITERIA",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidDate signals a date that does not parse as YYYY-MM-DD
func InvalidDate(field, value string) *AppError {
	return &AppError{
		Err:        ErrInvalidDate,
		Message:    fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format", field),
		Code:       "INVALID_DATE",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]string{"field": field, "value": value},
	}
}

// MissingFields signals a registration or import entry lacking mandatory fields
func MissingFields(fields []string) *AppError {
	details := make(map[string]string, len(fields))
	for _, f := range fields {
		details[f] = f + " is required"
	}
	return &AppError{
		Err:        ErrValidation,
		Message:    fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")),
		Code:       "MISSING_REQUIRED_FIELD",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Duplicate signals an identity collision with an existing record
func Duplicate(message string) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		Message:    message,
		Code:       "DUPLICATE_RECORD",
		HTTPStatus: http.StatusConflict,
	}
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    message,
		Code:       "CONFLICT",
		HTTPStatus: http.StatusConflict,
	}
}

// Storage wraps a storage-layer failure as an opaque error
func Storage(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %w", ErrStorage, err),
		Message:    "storage error",
		Code:       "STORAGE_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Internal creates an internal error
func Internal(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "internal server error",
		Code:       "INTERNAL_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "INTERNAL_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}
