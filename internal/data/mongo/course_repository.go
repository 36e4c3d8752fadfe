package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillforge-lms/internal/domain/course"
)

const (
	// CourseCollectionName is the name of the courses collection in MongoDB
	CourseCollectionName = "courses"
)

// CourseRepository implements the course.Repository interface for MongoDB
type CourseRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewCourseRepository creates a new MongoDB course repository
func NewCourseRepository(logger *slog.Logger, db *mongo.Database) course.Repository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new course document
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	collection := r.db.Collection(CourseCollectionName)

	_, err := collection.InsertOne(ctx, c)
	if err != nil {
		r.logger.Error("Failed to create course",
			"course_id", c.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by its ID.
// Returns ErrCourseNotFound if no course exists for the given ID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	collection := r.db.Collection(CourseCollectionName)

	var c course.Course
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, course.ErrCourseNotFound{CourseID: id}
		}
		r.logger.Error("Failed to get course",
			"course_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return &c, nil
}

// List retrieves paginated courses sorted by creation time, newest first
func (r *CourseRepository) List(ctx context.Context, limit, offset int) ([]*course.Course, error) {
	collection := r.db.Collection(CourseCollectionName)

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list courses", "error", err)
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []*course.Course
	if err := cursor.All(ctx, &courses); err != nil {
		r.logger.Error("Failed to decode courses", "error", err)
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}

	return courses, nil
}

// Count counts the total number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(CourseCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to count courses", "error", err)
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}

	return count, nil
}

// ApplyEnrollmentDelta increments the course statistics counters with a
// single $inc, avoiding the read-modify-write cycle so concurrent
// reconciliations for the same course cannot lose updates.
// Returns ErrCourseNotFound if the course doesn't exist.
func (r *CourseRepository) ApplyEnrollmentDelta(ctx context.Context, id uuid.UUID, amount int64) error {
	collection := r.db.Collection(CourseCollectionName)

	update := bson.M{
		"$inc": bson.M{
			"enrollment_count": int64(1),
			"total_revenue":    amount,
		},
		"$set": bson.M{
			"updated_at": time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("Failed to apply enrollment delta",
			"course_id", id.String(),
			"amount", amount,
			"error", err)
		return fmt.Errorf("failed to apply enrollment delta: %w", err)
	}

	if result.MatchedCount == 0 {
		return course.ErrCourseNotFound{CourseID: id}
	}

	return nil
}
