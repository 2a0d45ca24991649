package quizgen

import (
	"math"
	"time"
)

// RetryPolicy bounds the upstream call. Attempts run back to back unless
// InitialBackoff is set, in which case the wait doubles per attempt up to MaxBackoff.
type RetryPolicy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	TotalTimeout   time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy is three immediate attempts, 20s each, 60s overall.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: 20 * time.Second,
		TotalTimeout:   60 * time.Second,
		MaxBackoff:     2 * time.Second,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = d.AttemptTimeout
	}
	if p.TotalTimeout <= 0 {
		p.TotalTimeout = d.TotalTimeout
	}
	return p
}

// backoff returns the wait before the attempt following the given failed one (1-based).
func (p RetryPolicy) backoff(failedAttempt int) time.Duration {
	if p.InitialBackoff <= 0 {
		return 0
	}
	wait := float64(p.InitialBackoff) * math.Pow(2, float64(failedAttempt-1))
	if p.MaxBackoff > 0 && wait > float64(p.MaxBackoff) {
		wait = float64(p.MaxBackoff)
	}
	return time.Duration(wait)
}
