package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the request correlation ID over HTTP
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey is the gin context key for the correlation ID
	CorrelationIDKey = "correlation_id"
)

// CorrelationID tags every request with a correlation ID. An incoming
// X-Correlation-ID header is honored so callers can trace a request across
// services; otherwise a fresh UUID is assigned. The ID is echoed back in the
// response header and stored in the request context for handlers and logs.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(CorrelationIDHeader, id)
		c.Set(CorrelationIDKey, id)

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation ID, or "" when the
// middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	v, _ := c.Get(CorrelationIDKey)
	id, _ := v.(string)
	return id
}
