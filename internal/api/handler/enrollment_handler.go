package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-lms/internal/api/middleware"
	"github.com/skillforge-lms/internal/api/service"
)

// EnrollmentHandler handles HTTP requests for enrollment reads
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	logger            *slog.Logger
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(logger *slog.Logger, enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// List retrieves the authenticated user's enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	enrollments, total, err := h.enrollmentService.GetEnrollmentsByUserID(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list enrollments", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		responses = append(responses, toEnrollmentResponse(e))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}
