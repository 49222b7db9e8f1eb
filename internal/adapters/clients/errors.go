// Package clients provides the instrumented HTTP client used to reach
// language model providers over HTTP.
package clients

import "errors"

// Transport failures. Adapters translate these into domain errors.
var (
	// ErrCircuitOpen is returned without a network call while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
