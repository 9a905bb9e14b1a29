package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecoulson/perdue/internal/ctxutil"
	"github.com/ecoulson/perdue/internal/logger"
)

// requestIDMiddleware stamps every request with a correlation id.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-Id", requestID)
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		entry := log.WithField("method", method).
			WithField("path", path).
			WithField("status", status).
			WithField("duration_ms", duration.Milliseconds()).
			WithField("ip", c.ClientIP())

		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).ErrorContext(c.Request.Context(), "Request completed with errors")
		} else {
			switch {
			case status >= 500:
				entry.ErrorContext(c.Request.Context(), "Request failed")
			case status >= 400:
				entry.WarnContext(c.Request.Context(), "Request completed with client error")
			default:
				entry.DebugContext(c.Request.Context(), "Request completed")
			}
		}
	}
}
