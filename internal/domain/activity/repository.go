package activity

import (
	"context"

	"github.com/google/uuid"
)

// Repository appends and reads audit records. There is deliberately no
// update or delete operation.
type Repository interface {
	Append(ctx context.Context, r *Record) error
	GetByCourseID(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]*Record, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByCourseID(ctx context.Context, courseID uuid.UUID) (int64, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
