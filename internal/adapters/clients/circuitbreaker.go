package clients

import (
	"sync"
	"time"
)

// State is the position of a circuit breaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota

	// StateOpen rejects calls until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int

	// Timeout is the cool-down spent open before probing again.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent probes allowed and the
	// number of probe successes needed to close the circuit.
	HalfOpenLimit int
}

// Counts is a snapshot of the breaker's counters.
type Counts struct {
	State               State
	ConsecutiveFailures int
	ProbeSuccesses      int
	ProbesInFlight      int
	LastFailure         time.Time
}

// CircuitBreaker stops calling a language model provider that keeps failing,
// so a dead local model does not add a full timeout to every advisor call.
//
//	closed    -> open       after MaxFailures consecutive failures
//	open      -> half-open  after Timeout
//	half-open -> closed     after HalfOpenLimit probe successes
//	half-open -> open       on any probe failure
type CircuitBreaker struct {
	mu       sync.RWMutex
	cfg      CircuitBreakerConfig
	counts   Counts
	onChange func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 1
	}

	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = 1
	}

	return &CircuitBreaker{
		cfg: cfg,
		now: time.Now,
	}
}

// OnStateChange registers a callback run asynchronously on every transition.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onChange = fn
}

// Allow reports whether a call may proceed. An open breaker whose cool-down
// has elapsed moves to half-open and admits the caller as its first probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.counts.State {
	case StateClosed:
		return true

	case StateOpen:
		if cb.now().Sub(cb.counts.LastFailure) < cb.cfg.Timeout {
			return false
		}
		cb.setState(StateHalfOpen)
		cb.counts.ProbesInFlight = 1
		return true

	case StateHalfOpen:
		if cb.counts.ProbesInFlight >= cb.cfg.HalfOpenLimit {
			return false
		}
		cb.counts.ProbesInFlight++
		return true

	default:
		return false
	}
}

// RecordSuccess records a call that reached the provider.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.counts.State {
	case StateClosed:
		cb.counts.ConsecutiveFailures = 0

	case StateHalfOpen:
		cb.counts.ProbesInFlight--
		cb.counts.ProbeSuccesses++
		if cb.counts.ProbeSuccesses >= cb.cfg.HalfOpenLimit {
			cb.setState(StateClosed)
		}
	}
}

// RecordFailure records a call that could not reach the provider.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.counts.LastFailure = cb.now()

	switch cb.counts.State {
	case StateClosed:
		cb.counts.ConsecutiveFailures++
		if cb.counts.ConsecutiveFailures >= cb.cfg.MaxFailures {
			cb.setState(StateOpen)
		}

	case StateHalfOpen:
		cb.counts.ProbesInFlight--
		cb.setState(StateOpen)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.counts.State
}

// Counts returns a snapshot of the counters.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.counts
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to State) {
	from := cb.counts.State
	if from == to {
		return
	}

	cb.counts.State = to
	cb.counts.ConsecutiveFailures = 0
	cb.counts.ProbeSuccesses = 0
	if to != StateHalfOpen {
		cb.counts.ProbesInFlight = 0
	}

	if cb.onChange != nil {
		go cb.onChange(from, to)
	}
}
