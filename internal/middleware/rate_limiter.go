package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/metrics"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Fixed window counter. Only increments while under the limit.
const windowLimitLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")

if current + 1 > limit then
    return {0, current}
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}
`

// RateLimiter limits requests per client IP using redis counters
type RateLimiter struct {
	redis  redis.Scripter
	script *redis.Script
	limit  int
	window time.Duration
	log    *zap.Logger
}

// NewRateLimiter creates a limiter allowing limit requests per window
func NewRateLimiter(client redis.Scripter, limit int, window time.Duration, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		script: redis.NewScript(windowLimitLuaScript),
		limit:  limit,
		window: window,
		log:    log,
	}
}

// Allow reports whether one more request for key fits in the current window
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().Unix() / int64(l.window.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	res, err := l.script.Run(ctx, l.redis, []string{redisKey}, l.limit, int(l.window.Seconds())).Int64Slice()
	if err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}
	return res[0] == 1, nil
}

// Middleware rejects over-limit requests with 429. A nil limiter allows
// everything and redis errors fail open.
func (l *RateLimiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		allowed, err := l.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			l.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimited.WithLabelValues(scope).Inc()
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Response{
				Success: false,
				Message: "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
