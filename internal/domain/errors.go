package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
)

// APIError is an error carrying the HTTP status the caller should answer with.
// Err holds the underlying cause and is never shown to clients.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NotFound(msg string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Message: msg}
}

func InvalidRequest(msg string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Message: msg}
}

// Internal wraps an unexpected storage or infrastructure failure.
func Internal(msg string, err error) *APIError {
	if msg == "" {
		msg = http.StatusText(http.StatusInternalServerError)
	}
	return &APIError{StatusCode: http.StatusInternalServerError, Message: msg, Err: err}
}

// StatusCode reports the HTTP status for err: the APIError status when present,
// 404 for ErrNotFound, 400 for validation failures and 500 otherwise.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
