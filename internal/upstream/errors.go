package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var errBadBody = errors.New("upstream: response body is not a match object")

var errBodyTooLarge = fmt.Errorf("%w: larger than %d bytes", errBadBody, maxMatchBody)

// StatusError captures a non-2xx response from the matches API.
type StatusError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the response is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// AsStatusError attempts to unwrap an error into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
