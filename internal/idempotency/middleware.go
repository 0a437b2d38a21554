package idempotency

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderKey is the request header carrying the client supplied key.
const HeaderKey = "Idempotency-Key"

const maxKeyLength = 255

// Middleware rejects a request whose key is already held. Keys of requests
// that end with a status of 400 or above are released so clients can retry.
func Middleware(guard Guard, scope string, ttl time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderKey)
		if raw == "" {
			c.Next()
			return
		}
		if len(raw) > maxKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "idempotency key too long"})
			return
		}

		key := scope + ":" + raw
		ok, err := guard.Acquire(c.Request.Context(), key, ttl)
		if err != nil {
			logger.Warn("idempotency guard unavailable", slog.String("error", err.Error()))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "duplicate request"})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := guard.Release(context.WithoutCancel(c.Request.Context()), key); err != nil {
				logger.Warn("release idempotency key failed", slog.String("error", err.Error()))
			}
		}
	}
}
