package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillforge-lms/internal/api/service"
	"github.com/skillforge-lms/internal/domain/user"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*user.User), args.String(1), args.Error(2)
}

func newAuthHandler(authService *MockAuthService) *AuthHandler {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return NewAuthHandler(logger, authService)
}

func newTestUser(email string) *user.User {
	now := time.Now()
	return &user.User{
		ID:        uuid.New(),
		Name:      "Jane Doe",
		Email:     email,
		Role:      user.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("SuccessfulRegistration", func(t *testing.T) {
		authService := new(MockAuthService)
		h := newAuthHandler(authService)
		router := setupTestRouter()
		router.POST("/auth/register", h.Register)

		u := newTestUser("jane@example.com")
		authService.On("Register", mock.Anything, "Jane Doe", "jane@example.com", "longenough").
			Return(u, nil)

		body, _ := json.Marshal(RegisterRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Password: "longenough",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var userResp UserResponse
		require.NoError(t, json.Unmarshal(data, &userResp))
		assert.Equal(t, u.ID.String(), userResp.ID)
		assert.Equal(t, "jane@example.com", userResp.Email)
		authService.AssertExpectations(t)
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		authService := new(MockAuthService)
		h := newAuthHandler(authService)
		router := setupTestRouter()
		router.POST("/auth/register", h.Register)

		authService.On("Register", mock.Anything, "Jane Doe", "jane@example.com", "longenough").
			Return(nil, user.ErrDuplicateEmail{Email: "jane@example.com"})

		body, _ := json.Marshal(RegisterRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Password: "longenough",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("DomainValidationErrorIsBadRequest", func(t *testing.T) {
		authService := new(MockAuthService)
		h := newAuthHandler(authService)
		router := setupTestRouter()
		router.POST("/auth/register", h.Register)

		authService.On("Register", mock.Anything, "Jane Doe", "jane@example.com", "weakpass1").
			Return(nil, user.ErrPasswordTooWeak)

		body, _ := json.Marshal(RegisterRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Password: "weakpass1",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MalformedBodyIsBadRequest", func(t *testing.T) {
		authService := new(MockAuthService)
		h := newAuthHandler(authService)
		router := setupTestRouter()
		router.POST("/auth/register", h.Register)

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte(`{"email":"not-an-email"}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		authService.AssertNotCalled(t, "Register")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("SuccessfulLogin", func(t *testing.T) {
		authService := new(MockAuthService)
		h := newAuthHandler(authService)
		router := setupTestRouter()
		router.POST("/auth/login", h.Login)

		u := newTestUser("jane@example.com")
		authService.On("Login", mock.Anything, "jane@example.com", "longenough").
			Return(u, "signed.jwt.token", nil)

		body, _ := json.Marshal(LoginRequest{Email: "jane@example.com", Password: "longenough"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var loginResp LoginResponse
		require.NoError(t, json.Unmarshal(data, &loginResp))
		assert.Equal(t, "signed.jwt.token", loginResp.Token)
		assert.Equal(t, u.ID.String(), loginResp.User.ID)
	})

	t.Run("InvalidCredentialsAreUnauthorized", func(t *testing.T) {
		authService := new(MockAuthService)
		h := newAuthHandler(authService)
		router := setupTestRouter()
		router.POST("/auth/login", h.Login)

		authService.On("Login", mock.Anything, "jane@example.com", "wrong-password").
			Return(nil, "", service.ErrInvalidCredentials)

		body, _ := json.Marshal(LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("UnexpectedErrorIsInternal", func(t *testing.T) {
		authService := new(MockAuthService)
		h := newAuthHandler(authService)
		router := setupTestRouter()
		router.POST("/auth/login", h.Login)

		authService.On("Login", mock.Anything, "jane@example.com", "longenough").
			Return(nil, "", errors.New("database unavailable"))

		body, _ := json.Marshal(LoginRequest{Email: "jane@example.com", Password: "longenough"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
