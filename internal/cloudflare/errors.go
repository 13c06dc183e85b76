package cloudflare

import (
	"errors"
	"fmt"
	"net/http"
)

// Three error kinds cover every failure mode of a call:
//
//   - TransportError: the exchange itself broke (unreachable host,
//     timeout, empty or non-JSON body). Retrying may help.
//   - APIError: a well-formed response said success=false. Carries the
//     provider's message; retrying helps only for rate limits and
//     server-side errors.
//   - ValidationError: the provider claimed success but the payload is
//     unusable (a create without an ID). Never retried.

// TransportError wraps a failed or unusable HTTP exchange.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a well-formed provider response with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// ValidationError marks a successful-looking response whose payload
// is unusable, such as a create that returned no ID.
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response from %s: %s", e.Op, e.Message)
}

// IsRetryable reports whether err could plausibly succeed on retry.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == http.StatusTooManyRequests || ae.StatusCode >= 500
	}
	return false
}
