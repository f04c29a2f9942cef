package github

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound marks a definitive 404: the target account, repository or
// endpoint does not exist. Never retried.
var ErrNotFound = errors.New("github: not found")

// RateLimitError is an HTTP 403 from a rate-limited endpoint. Reset is the
// advertised window reset time when the response carried one, else zero.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return "github: rate limited"
	}
	return fmt.Sprintf("github: rate limited, resets at %s", e.Reset.Format(time.RFC3339))
}

// UpstreamError is any other non-2xx response.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github: upstream returned %d", e.Status)
}

// TransportError is a network-level failure before any status was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("github: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retriable reports whether a failure is worth retrying: network errors,
// server errors (5xx), 429 and rate-limit 403s are transient; a 404 or any
// other 4xx is terminal on first sight.
func Retriable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status >= 500 || ue.Status == 429
	}
	return false
}
