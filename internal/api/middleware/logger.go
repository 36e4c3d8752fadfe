package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger emits one structured log line per request with method, full path,
// response status, latency and client details. The correlation ID is attached
// when present so request logs can be joined with service logs.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		fullPath := c.Request.URL.Path
		if query := c.Request.URL.RawQuery; query != "" {
			fullPath += "?" + query
		}

		requestLogger := logger
		if id := GetCorrelationID(c); id != "" {
			requestLogger = logger.With("correlation_id", id)
		}

		c.Next()

		requestLogger.Info("HTTP request",
			"method", c.Request.Method,
			"path", fullPath,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
