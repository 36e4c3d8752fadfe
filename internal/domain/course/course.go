package course

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyTitle   = errors.New("course title cannot be empty")
	ErrInvalidPrice = errors.New("course price cannot be negative")
)

// Course represents a published course in the catalog. The statistics fields
// are monotonically non-decreasing counters owned by reconciliation; they are
// only ever mutated through Repository.ApplyEnrollmentDelta.
type Course struct {
	ID              uuid.UUID `json:"id" bson:"_id"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	InstructorID    uuid.UUID `json:"instructor_id" bson:"instructor_id"`
	Price           int64     `json:"price" bson:"price"` // Minor units (cents)
	Currency        string    `json:"currency" bson:"currency"`
	LectureIDs      []string  `json:"lecture_ids,omitempty" bson:"lecture_ids,omitempty"`
	EnrollmentCount int64     `json:"enrollment_count" bson:"enrollment_count"`
	TotalRevenue    int64     `json:"total_revenue" bson:"total_revenue"` // Minor units (cents)
	Published       bool      `json:"published" bson:"published"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// NewCourse creates a new course with the given parameters
func NewCourse(title, description string, instructorID uuid.UUID, price int64, currency string) (*Course, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if currency == "" {
		currency = "usd"
	}

	now := time.Now()
	return &Course{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		InstructorID: instructorID,
		Price:        price,
		Currency:     strings.ToLower(currency),
		Published:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
