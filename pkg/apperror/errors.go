package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    string       `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Error kinds used across the POS engine
const (
	KindInvalidState           = "invalid_state"
	KindValidation             = "validation"
	KindInsufficientFunds      = "insufficient_funds"
	KindConcurrentModification = "concurrent_modification"
	KindDeliveryGap            = "delivery_gap"
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewInvalidStateError signals an illegal state transition, e.g. paying a free order
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidState,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewValidationMessage creates a validation error with a single message
func NewValidationMessage(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: message,
	}
}

// NewInsufficientFundsError signals a withdrawal exceeding the derived balance
func NewInsufficientFundsError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInsufficientFunds,
		Message: message,
	}
}

// NewConcurrentModificationError signals an exhausted optimistic retry budget
func NewConcurrentModificationError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConcurrentModification,
		Message: message,
	}
}

// NewDeliveryGapError signals a missed notification range; consumers recover by polling
func NewDeliveryGapError(message string) *AppError {
	return &AppError{
		Code:    http.StatusGone,
		Kind:    KindDeliveryGap,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
