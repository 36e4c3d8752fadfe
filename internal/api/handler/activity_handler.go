package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/api/middleware"
	"github.com/skillforge-lms/internal/api/service"
)

// ActivityHandler handles HTTP requests for activity reads
type ActivityHandler struct {
	activityService service.ActivityService
	logger          *slog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(logger *slog.Logger, activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListMine retrieves the authenticated user's activity history
func (h *ActivityHandler) ListMine(c *gin.Context) {
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

	records, total, err := h.activityService.GetActivitiesByUserID(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list activities", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ActivityResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toActivityResponse(r))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// ListByCourse retrieves the activity history of one course
func (h *ActivityHandler) ListByCourse(c *gin.Context) {
	idParam := c.Param("id")
	courseID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid course ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid course ID")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, total, err := h.activityService.GetActivitiesByCourseID(c.Request.Context(), courseID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list course activities", "course_id", courseID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ActivityResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toActivityResponse(r))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}
