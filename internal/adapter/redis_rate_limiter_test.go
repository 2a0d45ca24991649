package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "studybuddy:ratelimit:questions:203.0.113.7"

func TestNewRedisRateLimiter(t *testing.T) {
	db, _ := redismock.NewClientMock()

	_, err := NewRedisRateLimiter(nil, 10, time.Minute)
	assert.Error(t, err)

	_, err = NewRedisRateLimiter(db, 0, time.Minute)
	assert.Error(t, err)

	_, err = NewRedisRateLimiter(db, 10, 0)
	assert.Error(t, err)

	limiter, err := NewRedisRateLimiter(db, 10, time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, limiter)
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstRequestOpensWindow", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		limiter, err := NewRedisRateLimiter(db, 3, time.Minute)
		require.NoError(t, err)

		mock.ExpectIncr(testKey).SetVal(1)
		mock.ExpectExpireNX(testKey, time.Minute).SetVal(true)
		mock.ExpectPTTL(testKey).SetVal(time.Minute)

		decision, err := limiter.Allow(ctx, testKey)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 3, decision.Limit)
		assert.Equal(t, 2, decision.Remaining)
		assert.Equal(t, time.Minute, decision.ResetIn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LastRequestInWindow", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		limiter, err := NewRedisRateLimiter(db, 3, time.Minute)
		require.NoError(t, err)

		mock.ExpectIncr(testKey).SetVal(3)
		mock.ExpectExpireNX(testKey, time.Minute).SetVal(false)
		mock.ExpectPTTL(testKey).SetVal(20 * time.Second)

		decision, err := limiter.Allow(ctx, testKey)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 0, decision.Remaining)
		assert.Equal(t, 20*time.Second, decision.ResetIn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OverLimit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		limiter, err := NewRedisRateLimiter(db, 3, time.Minute)
		require.NoError(t, err)

		mock.ExpectIncr(testKey).SetVal(4)
		mock.ExpectExpireNX(testKey, time.Minute).SetVal(false)
		mock.ExpectPTTL(testKey).SetVal(5 * time.Second)

		decision, err := limiter.Allow(ctx, testKey)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, 0, decision.Remaining)
		assert.Equal(t, 5*time.Second, decision.ResetIn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingTTLFallsBackToWindow", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		limiter, err := NewRedisRateLimiter(db, 3, time.Minute)
		require.NoError(t, err)

		mock.ExpectIncr(testKey).SetVal(2)
		mock.ExpectExpireNX(testKey, time.Minute).SetVal(false)
		mock.ExpectPTTL(testKey).SetVal(-1)

		decision, err := limiter.Allow(ctx, testKey)

		require.NoError(t, err)
		assert.Equal(t, time.Minute, decision.ResetIn)
	})

	t.Run("RedisError", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		limiter, err := NewRedisRateLimiter(db, 3, time.Minute)
		require.NoError(t, err)

		redisErr := errors.New("connection refused")
		mock.ExpectIncr(testKey).SetErr(redisErr)
		mock.ExpectExpireNX(testKey, time.Minute).SetErr(redisErr)
		mock.ExpectPTTL(testKey).SetErr(redisErr)

		_, err = limiter.Allow(ctx, testKey)

		assert.ErrorIs(t, err, redisErr)
	})
}

func TestRedisRateLimiter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter, err := NewRedisRateLimiter(db, 3, time.Minute)
	require.NoError(t, err)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, limiter.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, limiter.Ping(context.Background()))
}
