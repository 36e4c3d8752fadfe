package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/domain/course"
	"github.com/skillforge-lms/internal/domain/enrollment"
	"github.com/skillforge-lms/internal/domain/shared"
	"github.com/skillforge-lms/internal/domain/user"
	"github.com/skillforge-lms/internal/platform/messaging/producers"
)

// ReconciliationServiceImpl implements the ReconciliationService interface.
// All three triggers (webhook, verify, success callback) funnel into
// Reconcile; the algorithm itself never branches on the trigger.
type ReconciliationServiceImpl struct {
	userRepo       user.Repository
	courseRepo     course.Repository
	enrollmentRepo enrollment.Repository
	producer       producers.MessagePublisher
	logger         *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	logger *slog.Logger,
	userRepo user.Repository,
	courseRepo course.Repository,
	enrollmentRepo enrollment.Repository,
	producer producers.MessagePublisher,
) ReconciliationService {
	return &ReconciliationServiceImpl{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		producer:       producer,
		logger:         logger,
	}
}

// Reconcile converts one confirmed payment into at most one enrollment.
//
// The existence check before insertion is an optimization only; the unique
// index on (user_id, course_id) is what actually decides the winner when
// two triggers race past the check simultaneously. The losing insert comes
// back as ErrAlreadyEnrolled and is folded into the idempotent success path.
//
// Statistics and audit effects are applied only after a first-time insert
// and are deliberately non-fatal: the enrollment record is the
// authoritative fact, counters and audit entries are derived projections.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, req *shared.ReconciliationRequest) (*enrollment.Enrollment, bool, error) {
	logger := s.logger
	if req.CorrelationID != "" {
		logger = s.logger.With("correlation_id", req.CorrelationID)
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}

	c, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, false, err
	}

	if !req.Confirmation.Settled() {
		logger.Warn("Rejected reconciliation for unsettled payment",
			"user_id", req.UserID.String(),
			"course_id", req.CourseID.String(),
			"payment_id", req.Confirmation.PaymentID,
			"status", string(req.Confirmation.Status),
			"source", string(req.Confirmation.Source),
		)
		return nil, false, shared.ErrPaymentNotConfirmed
	}

	existing, err := s.enrollmentRepo.GetByUserAndCourse(ctx, req.UserID, req.CourseID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		logger.Info("Enrollment already recorded, treating as completed",
			"user_id", req.UserID.String(),
			"course_id", req.CourseID.String(),
			"payment_id", existing.PaymentID,
			"source", string(req.Confirmation.Source),
		)
		return existing, false, nil
	}

	e := enrollment.New(req.UserID, req.CourseID, req.Confirmation)
	if err := s.enrollmentRepo.Create(ctx, e); err != nil {
		var alreadyEnrolled enrollment.ErrAlreadyEnrolled
		if errors.As(err, &alreadyEnrolled) {
			// A concurrent trigger won the insert. Return its record.
			winner, getErr := s.enrollmentRepo.GetByUserAndCourse(ctx, req.UserID, req.CourseID)
			if getErr != nil {
				return nil, false, getErr
			}
			if winner == nil {
				return nil, false, err
			}
			logger.Info("Lost enrollment insert race, returning winner's record",
				"user_id", req.UserID.String(),
				"course_id", req.CourseID.String(),
				"payment_id", winner.PaymentID,
			)
			return winner, false, nil
		}
		return nil, false, err
	}

	logger.Info("Enrollment recorded",
		"user_id", req.UserID.String(),
		"course_id", req.CourseID.String(),
		"payment_id", e.PaymentID,
		"amount", e.AmountPaid,
		"source", string(req.Confirmation.Source),
	)

	// Derived effects below this point never fail the reconciliation.
	if err := s.courseRepo.ApplyEnrollmentDelta(ctx, req.CourseID, e.AmountPaid); err != nil {
		logger.Error("Failed to update course statistics after enrollment",
			"course_id", req.CourseID.String(),
			"amount", e.AmountPaid,
			"error", err,
		)
	}

	s.publishActivity(ctx, logger, u, c.ID, e, req.CorrelationID)

	return e, true, nil
}

// publishActivity emits the audit event for a freshly created enrollment.
// Publish failures are logged and dropped; the activity processor gives the
// record eventual durability once the event lands on the topic.
func (s *ReconciliationServiceImpl) publishActivity(ctx context.Context, logger *slog.Logger, u *user.User, courseID uuid.UUID, e *enrollment.Enrollment, correlationID string) {
	event := &shared.ActivityEvent{
		ActivityID: uuid.New(),
		UserID:     u.ID,
		UserName:   u.Name,
		UserEmail:  u.Email,
		Action:     "Enrolled in course",
		Type:       shared.ActivityTypeEnrollment,
		CourseID:   courseID,
		Metadata: map[string]string{
			"payment_id": e.PaymentID,
			"amount":     strconv.FormatInt(e.AmountPaid, 10),
			"session_id": e.SessionID,
		},
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}

	if err := s.producer.Publish(ctx, event.ActivityID.String(), event); err != nil {
		logger.Error("Failed to publish activity event after enrollment",
			"activity_id", event.ActivityID.String(),
			"user_id", u.ID.String(),
			"course_id", courseID.String(),
			"error", err,
		)
	}
}
