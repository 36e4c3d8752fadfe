package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines user persistence operations
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail returns nil, nil when no user exists with the given email
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// ErrUserNotFound indicates missing user
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrUserNotFound
func (e ErrUserNotFound) Is(target error) bool {
	t, ok := target.(ErrUserNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrDuplicateEmail indicates email uniqueness violation
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "user with email already exists: " + e.Email
}
