package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode classifies an AppError
type ErrorCode string

const (
	// Generic errors
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeForbidden  ErrorCode = "FORBIDDEN"
	ErrCodeConflict   ErrorCode = "CONFLICT"

	// Giveaway lifecycle errors
	ErrCodeInvalidDuration      ErrorCode = "INVALID_DURATION"
	ErrCodeInsufficientWinners  ErrorCode = "INSUFFICIENT_WINNERS"
	ErrCodeUnresolvableIdentity ErrorCode = "UNRESOLVABLE_IDENTITY"
	ErrCodeInvalidIdentity      ErrorCode = "INVALID_IDENTITY_FORMAT"
	ErrCodeNoPriorGiveaway      ErrorCode = "NO_PRIOR_GIVEAWAY"

	// Chat platform transport errors that are neither NOT_FOUND nor FORBIDDEN
	ErrCodePlatform ErrorCode = "PLATFORM_ERROR"
)

// AppError is a typed application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" error
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound
}

// IsForbidden reports whether the platform denied the operation
func (e *AppError) IsForbidden() bool {
	return e.Code == ErrCodeForbidden
}

// WithDetail attaches a detail value to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Newf creates an AppError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Constructors for frequent errors

// NewValidationError creates a validation error
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Invalid %s: %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewInvalidDurationError creates an error for a malformed or out-of-range duration token
func NewInvalidDurationError(token, reason string) *AppError {
	return New(ErrCodeInvalidDuration, reason).
		WithDetail("token", token)
}

// NewConflictError creates a conflict error
func NewConflictError(resource, reason string) *AppError {
	return New(ErrCodeConflict, reason).
		WithDetail("resource", resource)
}

// NewPlatformError wraps a chat platform failure
func NewPlatformError(operation string, err error) *AppError {
	return Wrap(err, ErrCodePlatform, fmt.Sprintf("Platform operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError extracts an AppError from the error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether any AppError in the chain carries code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsNotFound reports whether err is a NOT_FOUND AppError
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeNotFound)
}

// IsForbidden reports whether err is a FORBIDDEN AppError
func IsForbidden(err error) bool {
	return HasCode(err, ErrCodeForbidden)
}

// UserMessage returns the text shown to a command invoker for err.
func UserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code == ErrCodeInternal || appErr.Code == ErrCodePlatform {
		return "Something went wrong. Please try again later."
	}
	return appErr.Message
}
