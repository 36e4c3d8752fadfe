package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-lms/internal/api/middleware"
)

// Response is the envelope every endpoint answers with. Exactly one of Data
// or Error is set; the correlation ID ties the body back to the request logs.
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo carries a machine-readable code and a human-readable message
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo carries pagination metadata for list responses
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

// RespondWithData sends the envelope with a data payload
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, &Response{
		Data:          data,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends the envelope with an error payload
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithPaginatedData sends the envelope with data plus pagination meta
func RespondWithPaginatedData(c *gin.Context, statusCode int, data interface{}, page, perPage, totalItems int) {
	totalPages := totalItems / perPage
	if totalItems%perPage > 0 {
		totalPages++
	}

	c.JSON(statusCode, &Response{
		Data: data,
		Meta: &MetaInfo{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			TotalItems: totalItems,
		},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondBadGateway signals an upstream failure the caller should retry.
// The payment provider treats any non-2xx as a cue to redeliver a webhook.
func RespondBadGateway(c *gin.Context, message string) {
	if message == "" {
		message = "Upstream provider unavailable"
	}
	RespondWithError(c, http.StatusBadGateway, "BAD_GATEWAY", message)
}

func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}
