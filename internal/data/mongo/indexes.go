package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// compound index on enrollments is not an optimization: it is the concurrency
// control that guarantees at most one enrollment per (user, course) pair when
// triggers race. Must be called before the server accepts traffic.
func EnsureIndexes(ctx context.Context, logger *slog.Logger, db *mongo.Database) error {
	enrollmentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "course_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_user_course"),
		},
		{
			Keys:    bson.D{{Key: "payment_id", Value: 1}},
			Options: options.Index().SetName("idx_payment_id"),
		},
	}
	if _, err := db.Collection(EnrollmentCollectionName).Indexes().CreateMany(ctx, enrollmentIndexes); err != nil {
		return fmt.Errorf("failed to create enrollment indexes: %w", err)
	}

	activityIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_course_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_user_timestamp"),
		},
	}
	if _, err := db.Collection(ActivityCollectionName).Indexes().CreateMany(ctx, activityIndexes); err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}

	logger.Info("Ensured MongoDB indexes",
		"collections", []string{EnrollmentCollectionName, ActivityCollectionName})
	return nil
}
