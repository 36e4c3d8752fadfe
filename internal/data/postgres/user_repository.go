// Package postgres provides the PostgreSQL implementation of the user
// repository. Identity data stays relational while the LMS documents
// (courses, enrollments, activities) live in MongoDB.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/skillforge-lms/internal/domain/user"
	"github.com/skillforge-lms/internal/platform/persistence"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new user in the database. If a user with the same email
// already exists, a database constraint error will be returned.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{UserID: id}
		}
		r.logger.Error("Failed to get user", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u user.User
	err := r.querier.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Return nil, nil when no user is found with the given email
		}
		r.logger.Error("Failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}
