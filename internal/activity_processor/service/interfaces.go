package service

import (
	"context"

	"github.com/skillforge-lms/internal/domain/shared"
)

// RecordingService defines the interface for persisting activity events.
type RecordingService interface {
	RecordActivity(ctx context.Context, event *shared.ActivityEvent) error
}
