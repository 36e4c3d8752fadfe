package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/domain/course"
	"github.com/skillforge-lms/internal/domain/user"
	"github.com/skillforge-lms/internal/platform/payments"
)

// CheckoutServiceImpl implements the CheckoutService interface
type CheckoutServiceImpl struct {
	userRepo   user.Repository
	courseRepo course.Repository
	gateway    payments.Gateway
	logger     *slog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(logger *slog.Logger, userRepo user.Repository, courseRepo course.Repository, gateway payments.Gateway) CheckoutService {
	return &CheckoutServiceImpl{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		gateway:    gateway,
		logger:     logger,
	}
}

// CreateCheckout validates the purchase and requests a hosted payment page.
// The charge amount comes from the stored course price, never the client.
func (s *CheckoutServiceImpl) CreateCheckout(ctx context.Context, userID, courseID uuid.UUID) (*CheckoutResult, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutParams{
		UserID:     u.ID.String(),
		CourseID:   c.ID.String(),
		CourseName: c.Title,
		Amount:     c.Price,
		Currency:   c.Currency,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created checkout session",
		"session_id", session.ID,
		"user_id", u.ID.String(),
		"course_id", c.ID.String(),
		"amount", c.Price,
	)

	return &CheckoutResult{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}
