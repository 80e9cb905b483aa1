package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/telemetry"
)

// RedisRateLimit is a fixed-window limiter shared across instances.
// Each window admits floor(rate*window)+burst requests per principal.
func RedisRateLimit(client *redis.Client, rule RateLimitRule, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimit(rule, nil)
	}
	if !rule.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(rule.Rate*float64(windowSeconds)) + int64(rule.Burst)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := time.Now().Unix() / int64(windowSeconds)
		key := fmt.Sprintf("rl:%s:%d", principalKey(c), bucket)

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// fail open
			telemetry.Warn("ratelimit.redis_unavailable", map[string]any{"error": err})
			c.Next()
			return
		}
		if count == 1 {
			_ = client.Expire(ctx, key, time.Duration(windowSeconds+1)*time.Second).Err()
		}
		if count > allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", windowSeconds))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			respond.Error(c, http.StatusTooManyRequests, "rate_limited", rateLimitMessage)
			return
		}
		c.Next()
	}
}
