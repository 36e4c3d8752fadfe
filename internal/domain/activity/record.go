package activity

import (
	"time"

	"github.com/google/uuid"
)

// Record is one append-only audit entry. Records are never mutated or
// deleted once written.
type Record struct {
	ID            uuid.UUID         `json:"id" bson:"_id"`
	UserID        uuid.UUID         `json:"user_id" bson:"user_id"`
	UserName      string            `json:"user_name" bson:"user_name"`
	UserEmail     string            `json:"user_email" bson:"user_email"`
	Action        string            `json:"action" bson:"action"`
	Type          string            `json:"type" bson:"type"`
	CourseID      uuid.UUID         `json:"course_id" bson:"course_id"`
	Metadata      map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp" bson:"timestamp"`
}
