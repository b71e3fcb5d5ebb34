package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// UpstreamError represents a non-2xx answer from a data provider (TMDB, Jikan).
type UpstreamError struct {
	Source     string
	Message    string
	StatusCode int
	APIMessage string // Body excerpt from the provider if available
}

func (e *UpstreamError) Error() string {
	if e.APIMessage != "" {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Source, e.Message, e.StatusCode, e.APIMessage)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Source, e.Message, e.StatusCode)
}

// NewUpstreamError creates a new provider error for statusCode.
func NewUpstreamError(source string, statusCode int, apiMessage string) *UpstreamError {
	var message string
	switch statusCode {
	case http.StatusUnauthorized:
		message = "invalid API key"
	case http.StatusForbidden:
		message = "access forbidden"
	case http.StatusNotFound:
		message = "not found"
	case http.StatusTooManyRequests:
		message = "too many requests"
	default:
		if statusCode >= 500 {
			message = "provider unavailable"
		} else {
			message = "unexpected status"
		}
	}

	return &UpstreamError{
		Source:     source,
		Message:    message,
		StatusCode: statusCode,
		APIMessage: apiMessage,
	}
}

// IsUpstreamError checks if error is an UpstreamError
func IsUpstreamError(err error) bool {
	var upErr *UpstreamError
	return stdErrors.As(err, &upErr)
}
