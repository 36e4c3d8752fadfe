package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into 500 responses instead of dropped connections.
// The panic value and stack are logged; the response body keeps the standard
// error envelope shape with the correlation ID when one is set.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error("Panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			body := gin.H{
				"error": gin.H{
					"code":    "INTERNAL_SERVER_ERROR",
					"message": "An internal server error occurred",
				},
			}
			if id := GetCorrelationID(c); id != "" {
				body["correlation_id"] = id
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()

		c.Next()
	}
}
