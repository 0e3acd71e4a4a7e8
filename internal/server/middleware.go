package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"gitlab.com/yelinaung/quickrate/internal/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger tags each request with an id and logs its completion.
// An incoming X-Request-ID is reused when present.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		c.Header(requestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		c.Next()

		event := logger.Log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Log.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request completed")
	}
}

// RequestID returns the id assigned by RequestLogger, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RateLimit rejects clients that exceed the limiter's rate with 429.
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			logger.Log.Error().Err(err).Str("request_id", RequestID(c)).Msg("Failed to get rate limit context")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		if lctx.Reached {
			logger.Log.Warn().
				Str("request_id", RequestID(c)).
				Int64("limit", lctx.Limit).
				Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
