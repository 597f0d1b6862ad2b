package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	redispkg "github.com/handywriterz/core/internal/pkg/redis"
	"github.com/handywriterz/core/internal/pkg/response"
	"go.uber.org/zap"
)

// RateLimitOptions bounds requests per client IP in fixed windows.
type RateLimitOptions struct {
	Name   string
	Max    int64
	Window time.Duration
}

// RateLimit counts requests per IP in redis. A nil client disables the limit,
// and redis errors let the request through.
func RateLimit(rdb *redispkg.Client, opts RateLimitOptions, log *zap.Logger) gin.HandlerFunc {
	if rdb == nil || opts.Max <= 0 || opts.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		window := time.Now().UnixNano() / int64(opts.Window)
		key := fmt.Sprintf("hw:rate_limit:%s:%s:%d", opts.Name, ip, window)
		count, err := rdb.Incr(c.Request.Context(), key, opts.Window+time.Second)
		if err != nil {
			log.Warn("rate limit check failed", zap.String("limit", opts.Name), zap.Error(err))
			c.Next()
			return
		}

		if count > opts.Max {
			c.Header("Retry-After", fmt.Sprintf("%d", int(opts.Window.Seconds()+0.5)))
			response.TooManyRequests(c, "too many attempts, please wait and try again")
			return
		}
		c.Next()
	}
}
