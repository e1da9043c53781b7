package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// AppError is the domain error type returned by services and repositories.
// Handlers translate it to an HTTP status via errors.Is on the wrapped
// sentinel; clients always receive the Message, never the wrapped error.
type AppError struct {
	Err     error    // sentinel (ErrNotFound, ErrValidation, ...)
	Message string   // human-readable, safe to return to clients
	Field   string   // optional: field that failed validation
	Allowed []string // optional: the allowed value set for enum fields
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidEnum reports a value outside a fixed allow-list. The allowed set
// is carried on the error so the 400 body can enumerate it.
func InvalidEnum(field, value string, allowed []string) *AppError {
	return &AppError{
		Err: ErrValidation,
		Message: fmt.Sprintf("invalid %s %q: must be one of %s",
			field, value, strings.Join(allowed, ", ")),
		Field:   field,
		Allowed: allowed,
	}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "valid authentication required"
	}
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}
