package mongo

import (
	"context"
	"errors"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillforge-lms/internal/domain/enrollment"
	"github.com/skillforge-lms/internal/domain/shared"
)

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

func TestNewEnrollmentRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewEnrollmentRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &EnrollmentRepository{}, repo)
}

func TestEnrollmentRepository_Create(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	e := enrollment.New(userID, courseID, shared.PaymentConfirmation{
		Source:    shared.SourceWebhook,
		Status:    shared.PaymentStatusCompleted,
		Amount:    4999,
		PaymentID: "pi_test_456",
		SessionID: "cs_test_123",
	})

	tests := []struct {
		name          string
		setupMocks    func(repo *MockEnrollmentRepository)
		expectedError error
	}{
		{
			name: "successful creation",
			setupMocks: func(repo *MockEnrollmentRepository) {
				repo.On("Create", mock.Anything, e).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "duplicate pair surfaces ErrAlreadyEnrolled",
			setupMocks: func(repo *MockEnrollmentRepository) {
				repo.On("Create", mock.Anything, e).Return(enrollment.ErrAlreadyEnrolled{UserID: userID, CourseID: courseID})
			},
			expectedError: enrollment.ErrAlreadyEnrolled{UserID: userID, CourseID: courseID},
		},
		{
			name: "database error",
			setupMocks: func(repo *MockEnrollmentRepository) {
				repo.On("Create", mock.Anything, e).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockEnrollmentRepository{}
			tt.setupMocks(mockRepo)

			ctx := context.Background()
			err := mockRepo.Create(ctx, e)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEnrollmentRepository_GetByUserAndCourse(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	e := enrollment.New(userID, courseID, shared.PaymentConfirmation{
		Status:    shared.PaymentStatusCompleted,
		Amount:    4999,
		PaymentID: "pi_test_456",
	})

	tests := []struct {
		name           string
		setupMocks     func(repo *MockEnrollmentRepository)
		expectedResult *enrollment.Enrollment
		expectedError  error
	}{
		{
			name: "enrollment found",
			setupMocks: func(repo *MockEnrollmentRepository) {
				repo.On("GetByUserAndCourse", mock.Anything, userID, courseID).Return(e, nil)
			},
			expectedResult: e,
		},
		{
			name: "no enrollment returns nil without error",
			setupMocks: func(repo *MockEnrollmentRepository) {
				repo.On("GetByUserAndCourse", mock.Anything, userID, courseID).Return(nil, nil)
			},
			expectedResult: nil,
		},
		{
			name: "database error",
			setupMocks: func(repo *MockEnrollmentRepository) {
				repo.On("GetByUserAndCourse", mock.Anything, userID, courseID).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockEnrollmentRepository{}
			tt.setupMocks(mockRepo)

			ctx := context.Background()
			result, err := mockRepo.GetByUserAndCourse(ctx, userID, courseID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedResult, result)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
