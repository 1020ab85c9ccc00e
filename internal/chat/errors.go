package chat

import (
	"errors"
	"net/http"
)

// Domain errors for chat operations.
var (
	ErrNotFound          = errors.New("exchange not found")
	ErrDuplicate         = errors.New("exchange already exists")
	ErrEmptyMessage      = errors.New("message required")
	ErrPostRequired      = errors.New("POST request required")
	ErrProcessingTimeout = errors.New("Processing timeout. Try again or simplify the query.")
)

// MapHTTPStatus maps chat domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyMessage) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPostRequired) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
