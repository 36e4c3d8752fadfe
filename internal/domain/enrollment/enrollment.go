package enrollment

import (
	"time"

	"github.com/google/uuid"
	"github.com/skillforge-lms/internal/domain/shared"
)

// Enrollment represents one user's paid access to one course. The pair
// (UserID, CourseID) is the identity: a unique compound index guarantees at
// most one record per pair regardless of how many reconciliation attempts
// race on it.
type Enrollment struct {
	ID         uuid.UUID            `json:"id" bson:"_id"`
	UserID     uuid.UUID            `json:"user_id" bson:"user_id"`
	CourseID   uuid.UUID            `json:"course_id" bson:"course_id"`
	AmountPaid int64                `json:"amount_paid" bson:"amount_paid"` // Minor units (cents)
	PaymentID  string               `json:"payment_id" bson:"payment_id"`
	SessionID  string               `json:"session_id,omitempty" bson:"session_id,omitempty"`
	Status     shared.PaymentStatus `json:"payment_status" bson:"payment_status"`

	Progress          int        `json:"progress" bson:"progress"` // 0-100
	CompletedLectures []string   `json:"completed_lectures,omitempty" bson:"completed_lectures,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CertificateIssued bool       `json:"certificate_issued" bson:"certificate_issued"`

	// EnrolledAt is set exactly once at creation and never mutated.
	EnrolledAt time.Time `json:"enrolled_at" bson:"enrolled_at"`
}

// New creates an enrollment from confirmed payment facts.
func New(userID, courseID uuid.UUID, conf shared.PaymentConfirmation) *Enrollment {
	return &Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		AmountPaid: conf.Amount,
		PaymentID:  conf.PaymentID,
		SessionID:  conf.SessionID,
		Status:     conf.Status,
		EnrolledAt: time.Now(),
	}
}
