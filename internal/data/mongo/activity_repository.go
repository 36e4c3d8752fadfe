package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillforge-lms/internal/domain/activity"
)

const (
	// ActivityCollectionName is the name of the activities collection in MongoDB
	ActivityCollectionName = "activities"
)

// ActivityRepository implements the activity.Repository interface for MongoDB
type ActivityRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewActivityRepository creates a new MongoDB activity repository
func NewActivityRepository(logger *slog.Logger, db *mongo.Database) activity.Repository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores one audit record. Re-delivered events reuse their activity
// id as the document id, so a duplicate insert is reported as already
// written rather than appended twice.
func (r *ActivityRepository) Append(ctx context.Context, rec *activity.Record) error {
	collection := r.db.Collection(ActivityCollectionName)

	_, err := collection.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Debug("Activity record already written, skipping",
				"activity_id", rec.ID.String())
			return nil
		}
		r.logger.Error("Failed to append activity record",
			"activity_id", rec.ID.String(),
			"error", err)
		return fmt.Errorf("failed to append activity record: %w", err)
	}

	return nil
}

// GetByCourseID retrieves paginated activity records for a course,
// newest first
func (r *ActivityRepository) GetByCourseID(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]*activity.Record, error) {
	return r.find(ctx, bson.M{"course_id": courseID}, limit, offset)
}

// GetByUserID retrieves paginated activity records for a user, newest first
func (r *ActivityRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*activity.Record, error) {
	return r.find(ctx, bson.M{"user_id": userID}, limit, offset)
}

// CountByCourseID counts the total number of activity records for a course
func (r *ActivityRepository) CountByCourseID(ctx context.Context, courseID uuid.UUID) (int64, error) {
	return r.count(ctx, bson.M{"course_id": courseID})
}

// CountByUserID counts the total number of activity records for a user
func (r *ActivityRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, bson.M{"user_id": userID})
}

func (r *ActivityRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	collection := r.db.Collection(ActivityCollectionName)

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count activity records", "error", err)
		return 0, fmt.Errorf("failed to count activity records: %w", err)
	}

	return count, nil
}

func (r *ActivityRepository) find(ctx context.Context, filter bson.M, limit, offset int) ([]*activity.Record, error) {
	collection := r.db.Collection(ActivityCollectionName)

	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get activity records", "error", err)
		return nil, fmt.Errorf("failed to get activity records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*activity.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode activity records", "error", err)
		return nil, fmt.Errorf("failed to decode activity records: %w", err)
	}

	return records, nil
}
