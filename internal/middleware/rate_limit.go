package middleware

import (
	"math"
	"strconv"

	"study-buddy/internal/cache"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RateLimit counts requests per client IP in fixed windows. A failing limiter
// lets the request through.
func RateLimit(limiter domain.RateLimiter, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := cache.GenerateCacheKey("ratelimit", scope, c.IP())

		decision, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			logger.Get().Warn("Rate limiter unavailable, allowing request",
				zap.String("request_id", GetRequestID(c)),
				zap.String("key", key),
				zap.Error(err),
			)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(decision.ResetIn.Seconds()))))
			return domain.NewRateLimitedError()
		}
		return c.Next()
	}
}
