package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/config"
	"github.com/skillforge-lms/internal/domain/user"
)

const (
	// UserIDKey is the key used to store the authenticated user id in the context
	UserIDKey = "user_id"

	bearerPrefix = "Bearer "
)

var (
	ErrMissingToken = errors.New("missing or malformed Authorization header")
	ErrInvalidToken = errors.New("session token is invalid or expired")
)

// TokenManager issues and verifies HS256 session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager from auth configuration
func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}
}

// Issue creates a signed session token for the user
func (m *TokenManager) Issue(u *user.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID.String(),
		"name":  u.Name,
		"email": u.Email,
		"role":  string(u.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning the user id it was issued for
func (m *TokenManager) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}

// Auth middleware rejects requests without a valid bearer token and stores
// the authenticated user id in the request context.
func Auth(logger *slog.Logger, tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": ErrMissingToken.Error()},
			})
			return
		}

		userID, err := tokens.Verify(authHeader[len(bearerPrefix):])
		if err != nil {
			logger.Warn("Rejected request with invalid session token",
				"path", c.Request.URL.Path,
				"error", err,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": ErrInvalidToken.Error()},
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user id from the gin context if present
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
