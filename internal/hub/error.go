package hub

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the Hub responds with a non-2xx HTTP status.
// Using a typed error allows callers to distinguish "not found" (404) from
// transient failures without string matching.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("huggingface hub status %d", e.StatusCode)
}

// IsNotFound reports whether err is a StatusError with HTTP 404.
func IsNotFound(err error) bool {
	var e *StatusError
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a StatusError with HTTP 401 or 403.
// This typically means the repo is gated and no (or an invalid) token was
// provided.
func IsUnauthorized(err error) bool {
	var e *StatusError
	return errors.As(err, &e) && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}
