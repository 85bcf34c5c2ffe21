package infra

import (
	"context"
	"testing"
	"time"
)

// fakeClock lets tests move the breaker past its cooldown without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(failures, successes int, cooldown time.Duration) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: failures,
		SuccessThreshold: successes,
		Cooldown:         cooldown,
	})
	cb.now = clock.Now
	return cb, clock
}

func TestCircuitBreaker_AllowInClosed(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("test"))

	if !cb.Allow() {
		t.Error("Expected Allow() to return true in CLOSED state")
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected state CLOSED, got %s", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(3, 1, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != StateClosed {
		t.Error("Should still be CLOSED after 2 failures")
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Errorf("Expected OPEN after 3 failures, got %s", cb.State())
	}
	if cb.Allow() {
		t.Error("Expected Allow() to return false in OPEN state")
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(2, 1, time.Minute)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	if cb.State() != StateClosed {
		t.Errorf("failures are consecutive; expected CLOSED, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenAfterCooldown(t *testing.T) {
	cb, clock := newTestBreaker(1, 1, 30*time.Second)

	cb.RecordFailure()
	if cb.Allow() {
		t.Fatal("Expected OPEN breaker to reject")
	}

	clock.Advance(31 * time.Second)

	if !cb.Allow() {
		t.Error("Expected Allow() after cooldown")
	}
	if cb.State() != StateHalfOpen {
		t.Errorf("Expected HALF_OPEN, got %s", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after successful probe, got %s", cb.State())
	}
}

func TestCircuitBreaker_ProbeFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, 2, 10*time.Second)

	cb.RecordFailure()
	clock.Advance(11 * time.Second)
	cb.Allow()

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Errorf("Expected OPEN after failed probe, got %s", cb.State())
	}
	if cb.Allow() {
		t.Error("cooldown restarts on a failed probe")
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newTestBreaker(1, 1, time.Hour)
	cb.RecordFailure()

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after Reset, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Error("Expected Allow() to return true after Reset")
	}
}

func TestBreakerBypass(t *testing.T) {
	ctx := context.Background()
	if BreakerBypassed(ctx) {
		t.Error("plain context must not bypass the breaker")
	}
	if !BreakerBypassed(WithBreakerBypass(ctx)) {
		t.Error("marked context should bypass the breaker")
	}
}
