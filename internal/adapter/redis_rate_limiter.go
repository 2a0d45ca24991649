package adapter

import (
	"context"
	"fmt"
	"time"

	"study-buddy/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter implements domain.RateLimiter as a fixed-window counter.
// The window starts with the first request for a key; EXPIRE NX needs Redis 7+.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a new instance of RedisRateLimiter.
// It expects a connected *redis.Client.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) (*RedisRateLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("rate limit needs a positive limit and window, got %d per %s", limit, window)
	}
	return &RedisRateLimiter{client: client, limit: limit, window: window}, nil
}

// Allow increments the counter for key and reports whether it is still within the limit.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (domain.RateLimitDecision, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, r.window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("rate limit pipeline for %s: %w", key, err)
	}

	count := incr.Val()
	resetIn := ttl.Val()
	if resetIn <= 0 {
		resetIn = r.window
	}
	remaining := r.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return domain.RateLimitDecision{
		Allowed:   count <= int64(r.limit),
		Limit:     r.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}

// Ping checks the health of the Redis connection.
func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ domain.RateLimiter = (*RedisRateLimiter)(nil)
