package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/api/middleware"
	"github.com/skillforge-lms/internal/api/service"
	"github.com/skillforge-lms/internal/domain/course"
)

// CourseHandler handles HTTP requests for catalog operations
type CourseHandler struct {
	courseService service.CourseService
	logger        *slog.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(logger *slog.Logger, courseService service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		logger:        logger,
	}
}

// Create publishes a new course with the authenticated user as instructor
func (h *CourseHandler) Create(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	instructorID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	created, err := h.courseService.CreateCourse(c.Request.Context(), req.Title, req.Description, instructorID, req.Price, req.Currency)
	if err != nil {
		if errors.Is(err, course.ErrEmptyTitle) || errors.Is(err, course.ErrInvalidPrice) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create course", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, toCourseResponse(created))
}

// GetByID retrieves a course by its ID, returning 404 if not found
func (h *CourseHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid course ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid course ID")
		return
	}

	found, err := h.courseService.GetCourseByID(c.Request.Context(), id)
	if err != nil {
		var notFound course.ErrCourseNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Course not found")
			return
		}
		h.logger.Error("Failed to get course", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, toCourseResponse(found))
}

// List retrieves a paginated course catalog
func (h *CourseHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	courses, total, err := h.courseService.ListCourses(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list courses", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]CourseResponse, 0, len(courses))
	for _, crs := range courses {
		responses = append(responses, toCourseResponse(crs))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}
