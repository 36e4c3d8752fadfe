package shared

import (
	"time"

	"github.com/google/uuid"
)

// ActivityTypeEnrollment tags audit entries produced by reconciliation.
const ActivityTypeEnrollment = "enrollment"

// ActivityEvent defines a Kafka message describing one auditable action.
// Produced by the API server, consumed by the activity processor which
// appends it to the activities collection.
type ActivityEvent struct {
	ActivityID    uuid.UUID         `json:"activity_id"`
	UserID        uuid.UUID         `json:"user_id"`
	UserName      string            `json:"user_name"`
	UserEmail     string            `json:"user_email"`
	Action        string            `json:"action"`
	Type          string            `json:"type"`
	CourseID      uuid.UUID         `json:"course_id"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
