package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/domain/course"
)

// CourseServiceImpl implements the CourseService interface
type CourseServiceImpl struct {
	courseRepo course.Repository
	logger     *slog.Logger
}

// NewCourseService creates a new course catalog service
func NewCourseService(logger *slog.Logger, courseRepo course.Repository) CourseService {
	return &CourseServiceImpl{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// CreateCourse publishes a new course to the catalog
func (s *CourseServiceImpl) CreateCourse(ctx context.Context, title, description string, instructorID uuid.UUID, price int64, currency string) (*course.Course, error) {
	c, err := course.NewCourse(title, description, instructorID, price, currency)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create course", "error", err)
		return nil, err
	}

	s.logger.Info("Created course", "course_id", c.ID.String(), "instructor_id", instructorID.String())
	return c, nil
}

// GetCourseByID retrieves a course by its unique identifier
func (s *CourseServiceImpl) GetCourseByID(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses retrieves a paginated course catalog
func (s *CourseServiceImpl) ListCourses(ctx context.Context, page, perPage int) ([]*course.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	courses, err := s.courseRepo.List(ctx, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list courses", "error", err)
		return nil, 0, err
	}

	total, err := s.courseRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count courses", "error", err)
		return nil, 0, err
	}

	return courses, total, nil
}
