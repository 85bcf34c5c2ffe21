package infra

import (
	"time"
)

const (
	// InitialRetryDelay is the wait before the first retry.
	InitialRetryDelay = 1 * time.Second
	maxRetryDelay     = 60 * time.Second
)

// BackoffDelay returns the exponential backoff for the n-th retry (1-based).
// Logic: InitialRetryDelay * 2^(n-1), capped at maxRetryDelay.
// Values below 1 are treated as the first retry.
func BackoffDelay(n int) time.Duration {
	if n < 1 {
		return InitialRetryDelay
	}

	// 2^30 seconds is far beyond maxRetryDelay; avoid shifting past it.
	if n > 30 {
		return maxRetryDelay
	}

	backoff := InitialRetryDelay * time.Duration(1<<uint(n-1))
	if backoff > maxRetryDelay {
		return maxRetryDelay
	}

	return backoff
}
