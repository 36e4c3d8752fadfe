package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillforge-lms/internal/domain/activity"
	"github.com/skillforge-lms/internal/domain/shared"
)

// ActivityRecordingService implements the RecordingService interface. It
// maps consumed events onto audit records; the ActivityID doubles as the
// record's storage key, so Kafka redeliveries append nothing new.
type ActivityRecordingService struct {
	activityRepo activity.Repository
	logger       *slog.Logger
}

// NewActivityRecordingService creates a new recording service
func NewActivityRecordingService(logger *slog.Logger, activityRepo activity.Repository) *ActivityRecordingService {
	return &ActivityRecordingService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// RecordActivity appends one event to the audit log
func (s *ActivityRecordingService) RecordActivity(ctx context.Context, event *shared.ActivityEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	record := &activity.Record{
		ID:            event.ActivityID,
		UserID:        event.UserID,
		UserName:      event.UserName,
		UserEmail:     event.UserEmail,
		Action:        event.Action,
		Type:          event.Type,
		CourseID:      event.CourseID,
		Metadata:      event.Metadata,
		CorrelationID: event.CorrelationID,
		Timestamp:     event.Timestamp,
	}

	if err := s.activityRepo.Append(ctx, record); err != nil {
		logger.Error("Failed to append activity record",
			"activity_id", event.ActivityID.String(),
			"user_id", event.UserID.String(),
			"error", err,
		)
		return fmt.Errorf("appending activity record %s failed: %w", event.ActivityID.String(), err)
	}

	logger.Info("Recorded activity",
		"activity_id", event.ActivityID.String(),
		"user_id", event.UserID.String(),
		"course_id", event.CourseID.String(),
		"type", event.Type,
	)
	return nil
}
