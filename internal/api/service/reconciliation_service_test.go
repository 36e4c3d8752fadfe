package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillforge-lms/internal/domain/course"
	"github.com/skillforge-lms/internal/domain/enrollment"
	"github.com/skillforge-lms/internal/domain/shared"
	"github.com/skillforge-lms/internal/domain/user"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, c *course.Course) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*course.Course), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, limit, offset int) ([]*course.Course, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*course.Course), args.Error(1)
}

func (m *MockCourseRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) ApplyEnrollmentDelta(ctx context.Context, id uuid.UUID, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*enrollment.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*enrollment.Enrollment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*enrollment.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockMessagingProducer struct {
	mock.Mock
}

func (m *MockMessagingProducer) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagingProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestUser(t *testing.T) *user.User {
	t.Helper()
	u, err := user.NewUser("Ada Lovelace", "ada@example.com", "correct horse battery", user.RoleStudent)
	if err != nil {
		t.Fatalf("failed to build test user: %v", err)
	}
	return u
}

func newTestCourse(t *testing.T, instructorID uuid.UUID) *course.Course {
	t.Helper()
	c, err := course.NewCourse("Distributed Systems", "Consensus, replication and failure models", instructorID, 4999, "usd")
	if err != nil {
		t.Fatalf("failed to build test course: %v", err)
	}
	return c
}

func settledConfirmation(source shared.ConfirmationSource) shared.PaymentConfirmation {
	return shared.PaymentConfirmation{
		Source:    source,
		Status:    shared.PaymentStatusCompleted,
		Amount:    4999,
		PaymentID: "pi_" + uuid.New().String(),
		SessionID: "cs_" + uuid.New().String(),
	}
}

func TestReconciliationServiceImpl_Reconcile(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("FirstConfirmationCreatesEnrollment", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())
		conf := settledConfirmation(shared.SourceWebhook)

		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		mockEnrollmentRepo.On("GetByUserAndCourse", ctx, u.ID, c.ID).Return(nil, nil).Once()
		mockEnrollmentRepo.On("Create", ctx, mock.AnythingOfType("*enrollment.Enrollment")).Return(nil).Once()
		mockCourseRepo.On("ApplyEnrollmentDelta", ctx, c.ID, conf.Amount).Return(nil).Once()
		mockProducer.On("Publish", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*shared.ActivityEvent")).Return(nil).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       u.ID,
			CourseID:     c.ID,
			Confirmation: conf,
		})

		assert.NoError(t, err)
		assert.True(t, created)
		assert.NotNil(t, e)
		assert.Equal(t, u.ID, e.UserID)
		assert.Equal(t, c.ID, e.CourseID)
		assert.Equal(t, conf.Amount, e.AmountPaid)
		assert.Equal(t, conf.PaymentID, e.PaymentID)

		mockUserRepo.AssertExpectations(t)
		mockCourseRepo.AssertExpectations(t)
		mockEnrollmentRepo.AssertExpectations(t)
		mockProducer.AssertExpectations(t)
	})

	t.Run("RepeatConfirmationShortCircuits", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())
		conf := settledConfirmation(shared.SourceVerifiedSession)
		existing := enrollment.New(u.ID, c.ID, conf)

		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		mockEnrollmentRepo.On("GetByUserAndCourse", ctx, u.ID, c.ID).Return(existing, nil).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       u.ID,
			CourseID:     c.ID,
			Confirmation: conf,
		})

		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing, e)

		// No statistics update, no activity event, no second insert.
		mockEnrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockCourseRepo.AssertNotCalled(t, "ApplyEnrollmentDelta", mock.Anything, mock.Anything, mock.Anything)
		mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		mockEnrollmentRepo.AssertExpectations(t)
	})

	t.Run("InsertRaceReturnsWinner", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())
		conf := settledConfirmation(shared.SourceWebhook)
		winner := enrollment.New(u.ID, c.ID, settledConfirmation(shared.SourceVerifiedSession))

		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		// Existence check sees nothing, then the insert collides with a
		// concurrent trigger and the refetch finds the winner's record.
		mockEnrollmentRepo.On("GetByUserAndCourse", ctx, u.ID, c.ID).Return(nil, nil).Once()
		mockEnrollmentRepo.On("Create", ctx, mock.AnythingOfType("*enrollment.Enrollment")).
			Return(enrollment.ErrAlreadyEnrolled{UserID: u.ID, CourseID: c.ID}).Once()
		mockEnrollmentRepo.On("GetByUserAndCourse", ctx, u.ID, c.ID).Return(winner, nil).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       u.ID,
			CourseID:     c.ID,
			Confirmation: conf,
		})

		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, winner, e)

		mockCourseRepo.AssertNotCalled(t, "ApplyEnrollmentDelta", mock.Anything, mock.Anything, mock.Anything)
		mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		mockEnrollmentRepo.AssertExpectations(t)
	})

	t.Run("UnsettledPaymentRejected", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())
		conf := settledConfirmation(shared.SourceClientAssertion)
		conf.Status = shared.PaymentStatusPending

		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       u.ID,
			CourseID:     c.ID,
			Confirmation: conf,
		})

		assert.ErrorIs(t, err, shared.ErrPaymentNotConfirmed)
		assert.False(t, created)
		assert.Nil(t, e)

		mockEnrollmentRepo.AssertNotCalled(t, "GetByUserAndCourse", mock.Anything, mock.Anything, mock.Anything)
		mockEnrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		userID := uuid.New()
		mockUserRepo.On("GetByID", ctx, userID).Return(nil, user.ErrUserNotFound{UserID: userID}).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       userID,
			CourseID:     uuid.New(),
			Confirmation: settledConfirmation(shared.SourceWebhook),
		})

		assert.ErrorIs(t, err, user.ErrUserNotFound{})
		assert.False(t, created)
		assert.Nil(t, e)
		mockCourseRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("UnknownCourse", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		u := newTestUser(t)
		courseID := uuid.New()
		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, courseID).Return(nil, course.ErrCourseNotFound{CourseID: courseID}).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       u.ID,
			CourseID:     courseID,
			Confirmation: settledConfirmation(shared.SourceWebhook),
		})

		assert.ErrorIs(t, err, course.ErrCourseNotFound{})
		assert.False(t, created)
		assert.Nil(t, e)
	})

	t.Run("DerivedEffectFailuresAreNonFatal", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())
		conf := settledConfirmation(shared.SourceWebhook)

		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		mockEnrollmentRepo.On("GetByUserAndCourse", ctx, u.ID, c.ID).Return(nil, nil).Once()
		mockEnrollmentRepo.On("Create", ctx, mock.AnythingOfType("*enrollment.Enrollment")).Return(nil).Once()
		mockCourseRepo.On("ApplyEnrollmentDelta", ctx, c.ID, conf.Amount).Return(errors.New("mongo unavailable")).Once()
		mockProducer.On("Publish", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*shared.ActivityEvent")).Return(errors.New("kafka unavailable")).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       u.ID,
			CourseID:     c.ID,
			Confirmation: conf,
		})

		assert.NoError(t, err)
		assert.True(t, created)
		assert.NotNil(t, e)

		mockCourseRepo.AssertExpectations(t)
		mockProducer.AssertExpectations(t)
	})

	t.Run("InsertFailsWithStorageError", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockCourseRepo := new(MockCourseRepository)
		mockEnrollmentRepo := new(MockEnrollmentRepository)
		mockProducer := new(MockMessagingProducer)
		service := NewReconciliationService(logger, mockUserRepo, mockCourseRepo, mockEnrollmentRepo, mockProducer)

		u := newTestUser(t)
		c := newTestCourse(t, uuid.New())
		storageErr := errors.New("write concern failure")

		mockUserRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		mockCourseRepo.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		mockEnrollmentRepo.On("GetByUserAndCourse", ctx, u.ID, c.ID).Return(nil, nil).Once()
		mockEnrollmentRepo.On("Create", ctx, mock.AnythingOfType("*enrollment.Enrollment")).Return(storageErr).Once()

		e, created, err := service.Reconcile(ctx, &shared.ReconciliationRequest{
			UserID:       u.ID,
			CourseID:     c.ID,
			Confirmation: settledConfirmation(shared.SourceWebhook),
		})

		assert.ErrorIs(t, err, storageErr)
		assert.False(t, created)
		assert.Nil(t, e)
		mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}
