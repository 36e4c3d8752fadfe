// Package mongo provides MongoDB implementations of the document-store
// repositories: courses, enrollments, and the append-only activity log.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillforge-lms/internal/domain/enrollment"
)

const (
	// EnrollmentCollectionName is the name of the enrollments collection in MongoDB
	EnrollmentCollectionName = "enrollments"
)

// EnrollmentRepository implements the enrollment.Repository interface for MongoDB
type EnrollmentRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewEnrollmentRepository creates a new MongoDB enrollment repository
func NewEnrollmentRepository(logger *slog.Logger, db *mongo.Database) enrollment.Repository {
	return &EnrollmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new enrollment unconditionally. The unique compound index
// on (user_id, course_id) turns concurrent duplicate inserts into a
// duplicate-key error, which is mapped to ErrAlreadyEnrolled so callers can
// treat the loser of the race as an idempotent success.
func (r *EnrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	collection := r.db.Collection(EnrollmentCollectionName)

	_, err := collection.InsertOne(ctx, e)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return enrollment.ErrAlreadyEnrolled{UserID: e.UserID, CourseID: e.CourseID}
		}
		r.logger.Error("Failed to create enrollment",
			"user_id", e.UserID.String(),
			"course_id", e.CourseID.String(),
			"error", err)
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	return nil
}

// GetByUserAndCourse retrieves the enrollment for a (user, course) pair.
// Returns nil, nil when no enrollment exists, enabling the optimistic
// existence check before insertion.
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*enrollment.Enrollment, error) {
	collection := r.db.Collection(EnrollmentCollectionName)

	filter := bson.M{"user_id": userID, "course_id": courseID}
	var e enrollment.Enrollment
	err := collection.FindOne(ctx, filter).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No enrollment for this pair
		}
		r.logger.Error("Failed to get enrollment",
			"user_id", userID.String(),
			"course_id", courseID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &e, nil
}

// GetByUserID retrieves paginated enrollments for a user.
// Results are sorted by enrollment time in descending order (newest first).
func (r *EnrollmentRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*enrollment.Enrollment, error) {
	collection := r.db.Collection(EnrollmentCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.M{"enrolled_at": -1}). // Sort by enrolled_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get enrollments",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	var enrollments []*enrollment.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		r.logger.Error("Failed to decode enrollments",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode enrollments: %w", err)
	}

	return enrollments, nil
}

// CountByUserID counts the total number of enrollments for a user
func (r *EnrollmentRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	collection := r.db.Collection(EnrollmentCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		r.logger.Error("Failed to count enrollments",
			"user_id", userID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	return count, nil
}
