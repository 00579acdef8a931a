package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pollbox/backend/pkg/redis"
	"github.com/pollbox/backend/pkg/response"
)

// RateLimit returns a middleware that limits requests per client IP using
// the given limiter. A nil limiter disables limiting, for deployments that
// run without Redis.
func RateLimit(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			response.Internal(c, "rate limit error")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))

		if !result.Allowed {
			response.TooManyRequests(c, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
