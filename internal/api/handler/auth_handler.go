package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-lms/internal/api/service"
	"github.com/skillforge-lms/internal/domain/user"
)

// AuthHandler handles HTTP requests for registration and login
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles creation of a new user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var duplicateEmailErr user.ErrDuplicateEmail
		if errors.As(err, &duplicateEmailErr) {
			h.logger.Warn("Attempt to register with duplicate email", "email", duplicateEmailErr.Email)
			RespondConflict(c, "An account with this email already exists")
			return
		}
		if errors.Is(err, user.ErrEmptyName) || errors.Is(err, user.ErrInvalidEmail) || errors.Is(err, user.ErrPasswordTooWeak) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to register user", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, toUserResponse(u))
}

// Login verifies credentials and returns a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			RespondUnauthorized(c, service.ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error("Failed to log in user", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, LoginResponse{
		User:  toUserResponse(u),
		Token: token,
	})
}
