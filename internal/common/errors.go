package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("collaborator unavailable")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapSentinel chains a sentinel category with a message and the underlying
// cause, so errors.Is matches both the category and the cause.
func WrapSentinel(sentinel error, message string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", sentinel, message)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, message, cause)
}

// HTTP error helpers
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func WriteBadRequest(w http.ResponseWriter, format string, args ...interface{}) {
	WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteJSONError(w, http.StatusNotFound, message)
}

func WriteInternal(w http.ResponseWriter, message string) {
	WriteJSONError(w, http.StatusInternalServerError, message)
}

// HTTPStatusFor maps sentinel errors to HTTP status codes.
func HTTPStatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
