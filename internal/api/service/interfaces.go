package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/domain/activity"
	"github.com/skillforge-lms/internal/domain/course"
	"github.com/skillforge-lms/internal/domain/enrollment"
	"github.com/skillforge-lms/internal/domain/shared"
	"github.com/skillforge-lms/internal/domain/user"
)

// AuthService defines the interface for account registration and login
type AuthService interface {
	// Register creates a new user account
	// Returns ErrDuplicateEmail if a user with the same email exists
	Register(ctx context.Context, name, email, password string) (*user.User, error)

	// Login verifies credentials and returns the user plus a signed session token
	// Returns ErrInvalidCredentials on unknown email or wrong password
	Login(ctx context.Context, email, password string) (*user.User, string, error)
}

// CourseService defines the interface for catalog operations
type CourseService interface {
	CreateCourse(ctx context.Context, title, description string, instructorID uuid.UUID, price int64, currency string) (*course.Course, error)

	// GetCourseByID returns ErrCourseNotFound if the course doesn't exist
	GetCourseByID(ctx context.Context, id uuid.UUID) (*course.Course, error)

	// ListCourses retrieves a paginated course catalog
	// Returns courses, total count, and any error
	ListCourses(ctx context.Context, page, perPage int) ([]*course.Course, int64, error)
}

// CheckoutService defines the interface for starting a hosted payment
type CheckoutService interface {
	// CreateCheckout validates the user and course, then requests a hosted
	// checkout session with the purchase facts embedded as metadata
	CreateCheckout(ctx context.Context, userID, courseID uuid.UUID) (*CheckoutResult, error)
}

// CheckoutResult carries the hosted payment page handle back to the client
type CheckoutResult struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// ReconciliationService converts a confirmed payment into exactly one
// enrollment regardless of which trigger delivers the confirmation or how
// many times it fires.
type ReconciliationService interface {
	// Reconcile runs the reconciliation algorithm for one payment confirmation.
	// Created is false when an enrollment for the pair already existed; in
	// that case no statistics or audit effects are re-applied.
	Reconcile(ctx context.Context, req *shared.ReconciliationRequest) (*enrollment.Enrollment, bool, error)
}

// EnrollmentService defines read access to a user's enrollments
type EnrollmentService interface {
	// GetEnrollmentsByUserID retrieves paginated enrollments for a user
	// Returns enrollments, total count, and any error
	GetEnrollmentsByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*enrollment.Enrollment, int64, error)
}

// ActivityService defines read access to the audit trail
type ActivityService interface {
	// GetActivitiesByUserID retrieves paginated activity records for a user
	// Returns records, total count, and any error
	GetActivitiesByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*activity.Record, int64, error)

	// GetActivitiesByCourseID retrieves paginated activity records for a course
	// Returns records, total count, and any error
	GetActivitiesByCourseID(ctx context.Context, courseID uuid.UUID, page, perPage int) ([]*activity.Record, int64, error)
}
