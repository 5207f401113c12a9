package spotify

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// APIError represents a structured error response from the Web API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// AuthError indicates authentication/authorization failures (401/403),
// typically bad or expired client credentials.
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

// BadRequestError indicates a 4xx request problem (e.g., malformed query).
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }

// ServerError indicates 5xx errors from the upstream service.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("upstream error: %s", e.APIError.Error()) }

// UnreachableError indicates the API endpoint could not be reached at all.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("endpoint unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a per-query failure the collector may
// absorb and continue past: rate limiting, upstream 5xx, network trouble or a
// malformed page. Auth failures are not transient; retrying other query
// variants with the same credentials cannot succeed.
func IsTransient(err error) bool {
	var auth *AuthError
	if errors.As(err, &auth) {
		return false
	}
	var rl *RateLimitError
	var srv *ServerError
	var un *UnreachableError
	if errors.As(err, &rl) || errors.As(err, &srv) || errors.As(err, &un) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	var bad *BadRequestError
	if errors.As(err, &bad) {
		return true
	}
	var api *APIError
	return errors.As(err, &api)
}
