package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge-lms/internal/api/middleware"
	"github.com/skillforge-lms/internal/api/service"
	"github.com/skillforge-lms/internal/domain/course"
	"github.com/skillforge-lms/internal/domain/shared"
	"github.com/skillforge-lms/internal/domain/user"
	"github.com/skillforge-lms/internal/platform/payments"
)

// PaymentHandler handles the three payment confirmation triggers plus
// checkout creation. All three triggers reduce their input to a
// PaymentConfirmation and delegate to the reconciliation service; the
// handlers differ only in how much of the payload they trust.
type PaymentHandler struct {
	checkoutService       service.CheckoutService
	reconciliationService service.ReconciliationService
	gateway               payments.Gateway
	logger                *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	logger *slog.Logger,
	checkoutService service.CheckoutService,
	reconciliationService service.ReconciliationService,
	gateway payments.Gateway,
) *PaymentHandler {
	return &PaymentHandler{
		checkoutService:       checkoutService,
		reconciliationService: reconciliationService,
		gateway:               gateway,
		logger:                logger,
	}
}

// CreateCheckout starts a hosted checkout session for the authenticated user
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		RespondBadRequest(c, "Invalid course ID")
		return
	}

	result, err := h.checkoutService.CreateCheckout(c.Request.Context(), userID, courseID)
	if err != nil {
		var courseNotFound course.ErrCourseNotFound
		var userNotFound user.ErrUserNotFound
		switch {
		case errors.As(err, &courseNotFound):
			RespondNotFound(c, "Course not found")
		case errors.As(err, &userNotFound):
			RespondNotFound(c, "User not found")
		case errors.Is(err, payments.ErrGatewayUnavailable):
			RespondBadGateway(c, "")
		default:
			h.logger.Error("Failed to create checkout session", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, result)
}

// Webhook handles signature-verified provider events. It must ack replays
// with 200 so the provider stops redelivering, and must answer 5xx only for
// failures where redelivery can actually help.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.logger.Error("Failed to read webhook payload", "error", err)
		RespondBadRequest(c, "Unable to read request body")
		return
	}

	event, err := h.gateway.VerifyWebhookSignature(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("Rejected webhook with invalid signature", "error", err)
		RespondBadRequest(c, "Invalid webhook signature")
		return
	}

	if event.Session == nil {
		// Event type this system does not act on. Ack so the provider
		// stops delivering it.
		RespondOK(c, gin.H{"received": true})
		return
	}

	userID, courseID, err := purchaseFromMetadata(event.Session.Metadata)
	if err != nil {
		h.logger.Error("Webhook session carries malformed metadata",
			"session_id", event.Session.ID,
			"error", err,
		)
		RespondBadRequest(c, "Checkout session metadata is malformed")
		return
	}

	_, _, err = h.reconciliationService.Reconcile(c.Request.Context(), &shared.ReconciliationRequest{
		UserID:        userID,
		CourseID:      courseID,
		Confirmation:  confirmationFromSession(event.Session, shared.SourceWebhook),
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		var courseNotFound course.ErrCourseNotFound
		var userNotFound user.ErrUserNotFound
		switch {
		case errors.Is(err, shared.ErrPaymentNotConfirmed):
			// Checkout completed but the charge has not settled yet. A
			// later async_payment_succeeded event carries the settlement,
			// so this delivery is acked rather than retried.
			RespondOK(c, gin.H{"received": true, "status": "pending"})
		case errors.As(err, &courseNotFound), errors.As(err, &userNotFound):
			h.logger.Error("Webhook references unknown user or course",
				"session_id", event.Session.ID,
				"error", err,
			)
			RespondBadRequest(c, "Checkout session references unknown user or course")
		default:
			h.logger.Error("Failed to reconcile webhook event",
				"session_id", event.Session.ID,
				"error", err,
			)
			RespondBadGateway(c, "Temporarily unable to process event")
		}
		return
	}

	RespondOK(c, gin.H{"received": true})
}

// Verify confirms a checkout session directly with the provider on behalf
// of the authenticated user.
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		RespondBadRequest(c, "Invalid course ID")
		return
	}

	session, ok := h.fetchOwnedSession(c, req.SessionID, userID, courseID)
	if !ok {
		return
	}

	h.reconcile(c, userID, courseID, confirmationFromSession(session, shared.SourceVerifiedSession))
}

// Success handles the post-payment callback. When the client hands back a
// session id the payment facts are re-fetched from the provider; without
// one the asserted facts are accepted at the weakest trust level.
func (h *PaymentHandler) Success(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req PaymentSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		RespondBadRequest(c, "Invalid course ID")
		return
	}

	var conf shared.PaymentConfirmation
	if req.SessionID != "" {
		session, ok := h.fetchOwnedSession(c, req.SessionID, userID, courseID)
		if !ok {
			return
		}
		conf = confirmationFromSession(session, shared.SourceVerifiedSession)
	} else {
		conf = shared.PaymentConfirmation{
			Source:    shared.SourceClientAssertion,
			Status:    shared.PaymentStatusCompleted,
			Amount:    req.Amount,
			PaymentID: req.PaymentID,
		}
	}

	h.reconcile(c, userID, courseID, conf)
}

// fetchOwnedSession retrieves a checkout session from the provider and
// checks its metadata against the authenticated caller and requested
// course. It writes the error response itself and reports ok=false when
// the caller should stop.
func (h *PaymentHandler) fetchOwnedSession(c *gin.Context, sessionID string, userID, courseID uuid.UUID) (*payments.SessionDetails, bool) {
	session, err := h.gateway.RetrieveSession(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrSessionNotFound):
			RespondNotFound(c, "Checkout session not found")
		case errors.Is(err, payments.ErrGatewayUnavailable):
			RespondBadGateway(c, "")
		default:
			h.logger.Error("Failed to retrieve checkout session", "session_id", sessionID, "error", err)
			RespondInternalError(c)
		}
		return nil, false
	}

	metaUserID, metaCourseID, err := purchaseFromMetadata(session.Metadata)
	if err != nil {
		h.logger.Error("Checkout session carries malformed metadata", "session_id", sessionID, "error", err)
		RespondBadRequest(c, "Checkout session metadata is malformed")
		return nil, false
	}
	if metaUserID != userID {
		h.logger.Warn("Checkout session does not belong to authenticated user",
			"session_id", sessionID,
			"user_id", userID.String(),
		)
		RespondUnauthorized(c, "Checkout session does not belong to the authenticated user")
		return nil, false
	}
	if metaCourseID != courseID {
		RespondBadRequest(c, "Checkout session was created for a different course")
		return nil, false
	}

	return session, true
}

// reconcile runs the shared reconciliation path for the authenticated
// triggers and writes the enrollment response. First-time creation answers
// 201, idempotent replays answer 200.
func (h *PaymentHandler) reconcile(c *gin.Context, userID, courseID uuid.UUID, conf shared.PaymentConfirmation) {
	e, created, err := h.reconciliationService.Reconcile(c.Request.Context(), &shared.ReconciliationRequest{
		UserID:        userID,
		CourseID:      courseID,
		Confirmation:  conf,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		var courseNotFound course.ErrCourseNotFound
		var userNotFound user.ErrUserNotFound
		switch {
		case errors.Is(err, shared.ErrPaymentNotConfirmed):
			RespondBadRequest(c, "Payment has not been confirmed by the provider")
		case errors.As(err, &courseNotFound):
			RespondNotFound(c, "Course not found")
		case errors.As(err, &userNotFound):
			RespondNotFound(c, "User not found")
		default:
			h.logger.Error("Failed to reconcile payment",
				"user_id", userID.String(),
				"course_id", courseID.String(),
				"error", err,
			)
			RespondInternalError(c)
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	RespondWithData(c, status, EnrollmentResultResponse{
		Enrollment:  toEnrollmentResponse(e),
		RedirectURL: "/courses/" + courseID.String(),
	})
}

// purchaseFromMetadata recovers the purchase identity embedded on a
// checkout session at creation time.
func purchaseFromMetadata(metadata map[string]string) (userID, courseID uuid.UUID, err error) {
	userID, err = uuid.Parse(metadata[payments.MetadataUserID])
	if err != nil {
		return uuid.Nil, uuid.Nil, shared.ErrMalformedMetadata
	}
	courseID, err = uuid.Parse(metadata[payments.MetadataCourseID])
	if err != nil {
		return uuid.Nil, uuid.Nil, shared.ErrMalformedMetadata
	}
	return userID, courseID, nil
}

// confirmationFromSession normalizes provider session facts into the
// reconciliation input at the given trust level.
func confirmationFromSession(session *payments.SessionDetails, source shared.ConfirmationSource) shared.PaymentConfirmation {
	return shared.PaymentConfirmation{
		Source:    source,
		Status:    session.Status,
		Amount:    session.AmountTotal,
		PaymentID: session.PaymentIntentID,
		SessionID: session.ID,
	}
}
