package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newLoggedRouter := func(buf *bytes.Buffer) *gin.Engine {
		testLogger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		router := gin.New()
		router.Use(CorrelationID())
		router.Use(Logger(testLogger))
		return router
	}

	t.Run("LogsRequestDetails", func(t *testing.T) {
		var buf bytes.Buffer
		router := newLoggedRouter(&buf)
		router.GET("/courses", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		correlationID := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/courses?page=2", nil)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set(CorrelationIDHeader, correlationID)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		logLine := buf.String()
		assert.Contains(t, logLine, `"msg":"HTTP request"`)
		assert.Contains(t, logLine, `"method":"GET"`)
		assert.Contains(t, logLine, `"path":"/courses?page=2"`)
		assert.Contains(t, logLine, `"status":200`)
		assert.Contains(t, logLine, `"latency":`)
		assert.Contains(t, logLine, `"client_ip":`)
		assert.Contains(t, logLine, `"user_agent":"test-agent"`)
		assert.Contains(t, logLine, `"correlation_id":"`+correlationID+`"`)
	})

	t.Run("GeneratedCorrelationIDStillAppears", func(t *testing.T) {
		var buf bytes.Buffer
		router := newLoggedRouter(&buf)
		router.POST("/enrollments", func(c *gin.Context) {
			c.String(http.StatusCreated, "Created")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/enrollments", nil))

		assert.Equal(t, http.StatusCreated, w.Code)

		logLine := buf.String()
		assert.Contains(t, logLine, `"method":"POST"`)
		assert.Contains(t, logLine, `"path":"/enrollments"`)
		assert.Contains(t, logLine, `"status":201`)
		assert.Contains(t, logLine, `"correlation_id":`)
	})
}
