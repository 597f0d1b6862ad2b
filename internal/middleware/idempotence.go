package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redispkg "github.com/handywriterz/core/internal/pkg/redis"
	"github.com/handywriterz/core/internal/pkg/response"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotenceHeader = "X-Idempotence"
	idempotenceTTL    = 60 * time.Second
)

// Idempotence rejects a repeat of a non-GET request while the first one is in
// flight or within a minute of its success. A nil client disables the check.
func Idempotence(rdb *redispkg.Client) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		key, err := idempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := "hw:idempotence:" + key
		raw := rdb.Raw()

		acquired, err := raw.SetNX(ctx, redisKey, "0", idempotenceTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !acquired {
			msg := "the same request already succeeded, wait a minute before repeating it"
			if val, _ := raw.Get(ctx, redisKey).Result(); val == "0" {
				msg = "the same request is still being processed"
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			raw.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			raw.Del(ctx, redisKey)
		}
	}
}

// idempotenceKey prefers the client supplied header and otherwise hashes the
// request line, body and caller.
func idempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(IdempotenceHeader); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	ua := c.Request.UserAgent()
	ip := c.ClientIP()
	auth := c.GetHeader("Authorization")
	if len(body) == 0 && ua == "" && ip == "" && auth == "" {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + ua + "|" + ip + "|" + auth
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
