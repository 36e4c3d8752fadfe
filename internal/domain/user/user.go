package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidEmail    = errors.New("email is not valid")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters")
)

// Role defines the access level of a user
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// User represents a platform account holding identity and credentials
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new user with a bcrypt-hashed password
func NewUser(name, email, password string, role Role) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooWeak
	}
	if role == "" {
		role = RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword reports whether the given plaintext matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
