package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/skillforge-lms/internal/activity_processor/service"
	"github.com/skillforge-lms/internal/domain/shared"
	"github.com/skillforge-lms/internal/platform/messaging/producers"
)

// ActivityEventHandler handles incoming activity event messages from Kafka
type ActivityEventHandler struct {
	recordingService service.RecordingService
	producer         producers.DeadLetterPublisher
	logger           *slog.Logger
}

// NewActivityEventHandler creates a new handler
func NewActivityEventHandler(
	logger *slog.Logger,
	recordingService service.RecordingService,
	producer producers.DeadLetterPublisher,
) *ActivityEventHandler {
	return &ActivityEventHandler{
		recordingService: recordingService,
		producer:         producer,
		logger:           logger,
	}
}

// HandleMessage processes Kafka messages
func (h *ActivityEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.ActivityEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal activity event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received activity event for recording",
		"activity_id", event.ActivityID.String(),
		"user_id", event.UserID.String(),
		"course_id", event.CourseID.String(),
		"type", event.Type,
	)

	if err := h.recordingService.RecordActivity(ctx, &event); err != nil {
		logger.Error("Failed to record activity",
			"activity_id", event.ActivityID.String(),
			"user_id", event.UserID.String(),
			"error", err,
		)
		return fmt.Errorf("recording activity %s failed: %w", event.ActivityID.String(), err)
	}

	logger.Info("Successfully recorded activity", "activity_id", event.ActivityID.String())
	return nil // Success, commit offset
}
