package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/yourorg/moving-portal/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// fixed-window counter, one key per caller per minute
var rateLimitScript = redis.NewScript(`
	local count_key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local reset_time = math.ceil(now / 60) * 60

	local current = tonumber(redis.call('GET', count_key) or "0")
	if current >= limit then
		return {0, 0, reset_time}
	end

	current = redis.call('INCR', count_key)
	redis.call('EXPIRE', count_key, 60)

	return {1, limit - current, reset_time}
`)

// RateLimit creates middleware for rate limiting requests using Redis.
// Requests pass through untouched when the limiter is disabled or when no
// Redis client is available, and on Redis errors rather than failing closed.
func RateLimit(redisClient *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || redisClient == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		now := time.Now()
		countKey := fmt.Sprintf("ratelimit:%s:%d", clientIP, now.Unix()/60)

		result, err := rateLimitScript.Run(
			c.Request.Context(),
			redisClient,
			[]string{countKey},
			cfg.RequestsPerMinute,
			now.Unix(),
		).Result()
		if err != nil {
			logger.Error("Rate limit check failed", zap.Error(err), zap.String("client_ip", clientIP))
			c.Next()
			return
		}

		resultArray := result.([]interface{})
		allowed := resultArray[0].(int64) == 1
		remaining := resultArray[1].(int64)
		resetTime := resultArray[2].(int64)

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))

		if !allowed {
			c.Header("Retry-After", strconv.FormatInt(resetTime-now.Unix(), 10))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
