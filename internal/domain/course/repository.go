package course

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages course persistence and the embedded statistics counters
type Repository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	List(ctx context.Context, limit, offset int) ([]*Course, error)
	Count(ctx context.Context) (int64, error)

	// ApplyEnrollmentDelta atomically increments enrollment_count by 1 and
	// total_revenue by amount using the storage engine's increment primitive.
	// Safe to call concurrently for the same course.
	ApplyEnrollmentDelta(ctx context.Context, id uuid.UUID, amount int64) error
}

// ErrCourseNotFound indicates missing course
type ErrCourseNotFound struct {
	CourseID uuid.UUID
}

func (e ErrCourseNotFound) Error() string {
	return "course not found: " + e.CourseID.String()
}

// Is implements the errors.Is interface for ErrCourseNotFound
func (e ErrCourseNotFound) Is(target error) bool {
	t, ok := target.(ErrCourseNotFound)
	if !ok {
		return false
	}
	if t.CourseID == uuid.Nil {
		return true
	}
	return e.CourseID == t.CourseID
}
