package infra

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type bypassKey struct{}

// WithBreakerBypass marks ctx as a user-initiated retry. Clients reset an
// open breaker for such calls so the request reaches the upstream.
func WithBreakerBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// BreakerBypassed reports whether ctx was marked by WithBreakerBypass.
func BreakerBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Upstream healthy
	StateOpen                  // Upstream failing, calls short-circuit
	StateHalfOpen              // Probing recovery
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreaker guards an upstream API. It counts failed logical calls
// (a call whose retries were all exhausted) rather than single attempts.
// Thread-safe for concurrent use.
type CircuitBreaker struct {
	name string
	mu   sync.Mutex
	now  func() time.Time

	state     State
	failures  int
	successes int
	openedAt  time.Time

	failureThreshold int
	successThreshold int
	cooldown         time.Duration
}

// CircuitBreakerConfig holds configuration for creating a circuit breaker.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failed calls before opening
	SuccessThreshold int           // successful probes before closing again
	Cooldown         time.Duration // time spent OPEN before probing
}

// DefaultCircuitBreakerConfig returns the defaults used for the market API.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Cooldown:         30 * time.Second,
	}
}

// NewCircuitBreaker creates a new circuit breaker in the CLOSED state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	if cfg.SuccessThreshold < 1 {
		cfg.SuccessThreshold = 1
	}
	return &CircuitBreaker{
		name:             cfg.Name,
		now:              time.Now,
		state:            StateClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		cooldown:         cfg.Cooldown,
	}
}

// Allow reports whether a call may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			return false
		}
		cb.state = StateHalfOpen
		cb.successes = 0
		slog.Info("Circuit breaker probing upstream", slog.String("name", cb.name))
		return true
	default:
		return false
	}
}

// RecordSuccess records a call that completed (possibly after retries).
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = StateClosed
			cb.failures = 0
			cb.successes = 0
			slog.Info("Circuit breaker CLOSED (upstream recovered)", slog.String("name", cb.name))
		}
	}
}

// RecordFailure records a call that failed after exhausting its retries.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.trip()
			slog.Warn("Circuit breaker OPEN (failures exceeded threshold)",
				slog.String("name", cb.name),
				slog.Int("failures", cb.failures))
		}
	case StateHalfOpen:
		cb.trip()
		slog.Warn("Circuit breaker OPEN (probe failed)", slog.String("name", cb.name))
	}
}

// trip must be called with mu held.
func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.openedAt = cb.now()
	cb.successes = 0
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset forces the breaker back to CLOSED.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
}
