package httpx

import (
	"fmt"
	"net/http"
)

// Kind classifies an AppError. It is used for logging only; clients receive the
// message alone.
type Kind string

const (
	KindInvalidInput       Kind = "InvalidInput"
	KindAuthFailure        Kind = "AuthFailure"
	KindPersistenceFailure Kind = "PersistenceFailure"
	KindInternal           Kind = "Internal"
)

// AppError represents an application error with HTTP status and kind
type AppError struct {
	HTTPStatus int    // HTTP status code
	Kind       Kind   // Error classification
	Message    string // User-facing error message
	Err        error  // Internal error (for logging only, not returned to client)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kind=%s, message=%s, err=%v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("kind=%s, message=%s", e.Kind, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(httpStatus int, kind Kind, message string, err error) *AppError {
	return &AppError{
		HTTPStatus: httpStatus,
		Kind:       kind,
		Message:    message,
		Err:        err,
	}
}

// ErrInvalidInput creates a 400 invalid input error
func ErrInvalidInput(message string) *AppError {
	if message == "" {
		message = "invalid input"
	}
	return NewAppError(http.StatusBadRequest, KindInvalidInput, message, nil)
}

// ErrUnauthorized creates a 401 authentication error
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(http.StatusUnauthorized, KindAuthFailure, message, nil)
}

// ErrDatabaseError creates a 500 persistence error. The cause is appended to the
// message so operators calling the API see what the database rejected.
func ErrDatabaseError(message string, err error) *AppError {
	if message == "" {
		message = "database error"
	}
	if err != nil {
		message = message + ": " + err.Error()
	}
	return NewAppError(http.StatusInternalServerError, KindPersistenceFailure, message, err)
}

// ErrInternalError creates a 500 internal error
func ErrInternalError(message string, err error) *AppError {
	if message == "" {
		message = "internal error"
	}
	return NewAppError(http.StatusInternalServerError, KindInternal, message, err)
}
