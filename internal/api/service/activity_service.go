package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/domain/activity"
)

// ActivityServiceImpl implements the ActivityService interface
type ActivityServiceImpl struct {
	activityRepo activity.Repository
	logger       *slog.Logger
}

// NewActivityService creates a new activity read service
func NewActivityService(logger *slog.Logger, activityRepo activity.Repository) ActivityService {
	return &ActivityServiceImpl{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// GetActivitiesByUserID retrieves paginated activity records for a user
func (s *ActivityServiceImpl) GetActivitiesByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*activity.Record, int64, error) {
	page, perPage = clampPagination(page, perPage)
	offset := (page - 1) * perPage

	records, err := s.activityRepo.GetByUserID(ctx, userID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to get activity records", "user_id", userID.String(), "error", err)
		return nil, 0, err
	}

	total, err := s.activityRepo.CountByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count activity records", "user_id", userID.String(), "error", err)
		return nil, 0, err
	}

	return records, total, nil
}

// GetActivitiesByCourseID retrieves paginated activity records for a course
func (s *ActivityServiceImpl) GetActivitiesByCourseID(ctx context.Context, courseID uuid.UUID, page, perPage int) ([]*activity.Record, int64, error) {
	page, perPage = clampPagination(page, perPage)
	offset := (page - 1) * perPage

	records, err := s.activityRepo.GetByCourseID(ctx, courseID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to get activity records", "course_id", courseID.String(), "error", err)
		return nil, 0, err
	}

	total, err := s.activityRepo.CountByCourseID(ctx, courseID)
	if err != nil {
		s.logger.Error("Failed to count activity records", "course_id", courseID.String(), "error", err)
		return nil, 0, err
	}

	return records, total, nil
}

func clampPagination(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
