package xapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoMorePages is returned by a Pager once its cursor stream is exhausted.
// It signals a normal end of iteration, not a transport failure.
var ErrNoMorePages = errors.New("no more pages")

// APIError is a structured error from the X API transport. Carrying the HTTP
// status here keeps rate-limit detection a predicate over a typed value
// instead of string matching against whatever the transport printed.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("x api: %s: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("x api: %s (status %d)", e.Message, e.StatusCode)
}

// IsRateLimit reports whether err represents a rate-limit condition (HTTP 429
// or an equivalent error message). This is the only retryable failure class.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}

	// Errors from layers that do not produce an APIError (proxies, wrapped
	// transports) are matched on message as a fallback.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

// IsNotFound reports whether err is an HTTP 404 from the X API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
