package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/blogify-dev/blogify-api/internal/constants"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	redisclient "github.com/blogify-dev/blogify-api/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter is the in-memory fallback: a per-IP sliding window of request
// timestamps, used when Redis is disabled or unreachable.
type RateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// allow records the request and reports whether it fits in the window,
// returning the remaining budget.
func (rl *RateLimiter) allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[ip]
	if len(tokens) >= rl.maxRequest {
		return false, 0
	}

	rl.tokens[ip] = append(tokens, now)
	return true, rl.maxRequest - len(tokens) - 1
}

// RateLimit limits requests per client IP. With a live Redis connection the
// window is a shared fixed-window counter (INCR with expiry on first hit), so
// the limit holds across replicas; otherwise each process enforces its own
// in-memory window. A Redis error fails open for that request.
func RateLimit(redis *redisclient.Client, maxRequest int, duration time.Duration) gin.HandlerFunc {
	fallback := NewRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		allowed := true
		remaining := 0

		if redis.IsEnabled() {
			key := constants.RateLimitKeyPrefix + ip
			ctx := c.Request.Context()

			count, err := redis.Raw().Incr(ctx, key).Result()
			if err != nil {
				logger.GetLogger().Warn("Rate limit counter unavailable, failing open",
					zap.String("client_ip", ip),
					zap.Error(err),
				)
				c.Next()
				return
			}
			if count == 1 {
				redis.Raw().Expire(ctx, key, duration)
			}

			allowed = count <= int64(maxRequest)
			remaining = maxRequest - int(count)
			if remaining < 0 {
				remaining = 0
			}
		} else {
			allowed, remaining = fallback.allow(ip, now)
		}

		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(duration.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, constants.BuildErrorResponse(
				"too many requests, please try again later", nil,
			))
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(duration).Unix()))

		c.Next()
	}
}
