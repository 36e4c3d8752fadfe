package enrollment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge-lms/internal/domain/shared"
)

func TestNew(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	conf := shared.PaymentConfirmation{
		Source:    shared.SourceWebhook,
		Status:    shared.PaymentStatusCompleted,
		Amount:    4999,
		PaymentID: "pi_test_123",
		SessionID: "cs_test_456",
	}

	beforeCreation := time.Now()
	e := New(userID, courseID, conf)
	afterCreation := time.Now()

	require.NotNil(t, e)
	assert.NotEqual(t, uuid.Nil, e.ID, "Enrollment ID should not be nil")
	assert.Equal(t, userID, e.UserID)
	assert.Equal(t, courseID, e.CourseID)
	assert.Equal(t, int64(4999), e.AmountPaid)
	assert.Equal(t, "pi_test_123", e.PaymentID)
	assert.Equal(t, "cs_test_456", e.SessionID)
	assert.Equal(t, shared.PaymentStatusCompleted, e.Status)
	assert.Zero(t, e.Progress)
	assert.False(t, e.CertificateIssued)
	assert.Nil(t, e.CompletedAt)

	assert.WithinDuration(t, beforeCreation, e.EnrolledAt, afterCreation.Sub(beforeCreation)+time.Millisecond, "EnrolledAt should be around the time of creation")
}

func TestPaymentConfirmation_Settled(t *testing.T) {
	testCases := []struct {
		name     string
		status   shared.PaymentStatus
		expected bool
	}{
		{name: "Completed", status: shared.PaymentStatusCompleted, expected: true},
		{name: "Pending", status: shared.PaymentStatusPending, expected: false},
		{name: "Failed", status: shared.PaymentStatusFailed, expected: false},
		{name: "Refunded", status: shared.PaymentStatusRefunded, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := shared.PaymentConfirmation{Status: tc.status}

			assert.Equal(t, tc.expected, conf.Settled())
		})
	}
}
