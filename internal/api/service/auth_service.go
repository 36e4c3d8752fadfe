package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/skillforge-lms/internal/domain/user"
)

// ErrInvalidCredentials is returned on unknown email or wrong password. The
// two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenIssuer signs session tokens for authenticated users
type TokenIssuer interface {
	Issue(u *user.User) (string, error)
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	userRepo user.Repository
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(logger *slog.Logger, userRepo user.Repository, tokens TokenIssuer) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new student account
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	u, err := user.NewUser(name, email, password, user.RoleStudent)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, u.Email)
	if err != nil {
		s.logger.Error("Failed to check for existing user", "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrDuplicateEmail{Email: u.Email}
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		s.logger.Error("Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("Registered new user", "user_id", u.ID.String())
	return u, nil
}

// Login verifies credentials and returns the user plus a signed session token
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to look up user by email", "error", err)
		return nil, "", err
	}
	if u == nil || !u.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		s.logger.Error("Failed to issue session token", "user_id", u.ID.String(), "error", err)
		return nil, "", err
	}

	return u, token, nil
}
