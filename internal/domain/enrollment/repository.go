package enrollment

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages enrollment persistence. Create must surface
// ErrAlreadyEnrolled on the (user_id, course_id) uniqueness violation; that
// violation, not the GetByUserAndCourse pre-check, is the concurrency
// control for duplicate reconciliation.
type Repository interface {
	Create(ctx context.Context, e *Enrollment) error

	// GetByUserAndCourse returns nil, nil when no enrollment exists.
	GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error)

	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Enrollment, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ErrAlreadyEnrolled indicates (user, course) uniqueness violation
type ErrAlreadyEnrolled struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
}

func (e ErrAlreadyEnrolled) Error() string {
	return "user " + e.UserID.String() + " is already enrolled in course " + e.CourseID.String()
}

// Is implements the errors.Is interface for ErrAlreadyEnrolled
func (e ErrAlreadyEnrolled) Is(target error) bool {
	t, ok := target.(ErrAlreadyEnrolled)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil && t.CourseID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID && e.CourseID == t.CourseID
}

// ErrEnrollmentNotFound indicates missing enrollment
type ErrEnrollmentNotFound struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
}

func (e ErrEnrollmentNotFound) Error() string {
	return "enrollment not found for user " + e.UserID.String() + " and course " + e.CourseID.String()
}
