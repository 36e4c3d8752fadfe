package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillforge-lms/internal/domain/course"
	"github.com/skillforge-lms/internal/platform/payments"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, params payments.CheckoutParams) (*payments.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CheckoutSession), args.Error(1)
}

func (m *MockGateway) RetrieveSession(ctx context.Context, sessionID string) (*payments.SessionDetails, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.SessionDetails), args.Error(1)
}

func (m *MockGateway) VerifyWebhookSignature(payload []byte, signatureHeader string) (*payments.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.WebhookEvent), args.Error(1)
}

func TestCheckoutServiceImpl_CreateCheckout(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockGateway := new(MockGateway)
		service := NewCheckoutService(logger, mockUserRepo, mockCourseRepo, mockGateway)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())

		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		mockGateway.On("CreateCheckoutSession", ctx, payments.CheckoutParams{
			UserID:     u.ID.String(),
			CourseID:   c.ID.String(),
			CourseName: c.Title,
			Amount:     c.Price,
			Currency:   c.Currency,
		}).Return(&payments.CheckoutSession{
			ID:  "cs_test_123",
			URL: "https://checkout.example.com/cs_test_123",
		}, nil).Once()

		result, err := service.CreateCheckout(ctx, u.ID, c.ID)

		assert.NoError(t, err)
		assert.Equal(t, "cs_test_123", result.SessionID)
		assert.Equal(t, "https://checkout.example.com/cs_test_123", result.CheckoutURL)
		mockGateway.AssertExpectations(t)
	})

	t.Run("CourseNotFound", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockGateway := new(MockGateway)
		service := NewCheckoutService(logger, mockUserRepo, mockCourseRepo, mockGateway)

		u := newTestUser(t)
		courseID := uuid.New()
		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, courseID).Return(nil, course.ErrCourseNotFound{CourseID: courseID}).Once()

		result, err := service.CreateCheckout(ctx, u.ID, courseID)

		assert.ErrorIs(t, err, course.ErrCourseNotFound{})
		assert.Nil(t, result)
		mockGateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("GatewayUnavailable", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockGateway := new(MockGateway)
		service := NewCheckoutService(logger, mockUserRepo, mockCourseRepo, mockGateway)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())
		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		mockGateway.On("CreateCheckoutSession", ctx, mock.AnythingOfType("payments.CheckoutParams")).
			Return(nil, payments.ErrGatewayUnavailable).Once()

		result, err := service.CreateCheckout(ctx, u.ID, c.ID)

		assert.ErrorIs(t, err, payments.ErrGatewayUnavailable)
		assert.Nil(t, result)
	})
}
