package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/domain/enrollment"
)

// EnrollmentServiceImpl implements the EnrollmentService interface
type EnrollmentServiceImpl struct {
	enrollmentRepo enrollment.Repository
	logger         *slog.Logger
}

// NewEnrollmentService creates a new enrollment read service
func NewEnrollmentService(logger *slog.Logger, enrollmentRepo enrollment.Repository) EnrollmentService {
	return &EnrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// GetEnrollmentsByUserID retrieves paginated enrollments for a user
func (s *EnrollmentServiceImpl) GetEnrollmentsByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*enrollment.Enrollment, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	enrollments, err := s.enrollmentRepo.GetByUserID(ctx, userID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to get enrollments", "user_id", userID.String(), "error", err)
		return nil, 0, err
	}

	total, err := s.enrollmentRepo.CountByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count enrollments", "user_id", userID.String(), "error", err)
		return nil, 0, err
	}

	return enrollments, total, nil
}
