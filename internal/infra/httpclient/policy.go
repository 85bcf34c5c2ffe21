package httpclient

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crypto_dash/internal/infra"
)

// MaxRetries is the number of reissues after the first attempt fails.
const MaxRetries = 3

// Attempt is the immutable per-attempt record threaded through the retry
// loop. N counts retries already issued for the call (0 on first issuance).
type Attempt struct {
	CallID  string
	N       int
	Request Request
}

// Next returns the record for the following retry; a is left untouched.
func (a Attempt) Next() Attempt {
	a.N++
	return a
}

// RetryDelay decides whether the failure err of attempt a is retried and
// how long to wait before reissuing it.
//
//   - a.N already at MaxRetries: terminal.
//   - 429: numeric Retry-After seconds, else exponential backoff.
//   - no response or status >= 500: exponential backoff.
//   - any other status: terminal.
func RetryDelay(a Attempt, err error) (time.Duration, bool) {
	if a.N >= MaxRetries {
		return 0, false
	}
	backoff := infra.BackoffDelay(a.N + 1)

	var se *StatusError
	if !errors.As(err, &se) {
		// Transport failure: no response at all
		return backoff, true
	}

	switch {
	case se.StatusCode == http.StatusTooManyRequests:
		if d, ok := ParseRetryAfter(se.Header.Get("Retry-After")); ok {
			return d, true
		}
		return backoff, true
	case se.StatusCode >= 500:
		return backoff, true
	default:
		return 0, false
	}
}

// ParseRetryAfter reads a Retry-After value as whole seconds.
// Empty, negative and non-integer values (including HTTP dates) are
// rejected so the caller falls back to exponential backoff. "0" means retry
// immediately.
func ParseRetryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// countsAgainstUpstream reports whether a terminal error reflects upstream
// health (for the circuit breaker). Plain 4xx answers mean the API is up.
func countsAgainstUpstream(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return true
	}
	return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
}
