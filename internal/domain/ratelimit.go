package domain

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of a single Allow call.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter defines the port for fixed-window request limiting.
// Implementations of this interface are adapters (e.g., RedisRateLimiter).
type RateLimiter interface {
	// Allow counts one request for key and reports whether it fits in the current window.
	Allow(ctx context.Context, key string) (RateLimitDecision, error)

	// Ping checks the health of the backing store.
	Ping(ctx context.Context) error
}
