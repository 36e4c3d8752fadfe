package shared

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotConfirmed = errors.New("payment is not in a settled state")
	ErrMalformedMetadata   = errors.New("payment session metadata is missing or malformed")
)

// PaymentStatus defines the settlement states a payment can be in
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// ConfirmationSource identifies which trigger produced a payment confirmation
// and therefore how much the confirmation can be trusted.
type ConfirmationSource string

const (
	// SourceWebhook carries facts from a signature-verified provider event.
	SourceWebhook ConfirmationSource = "WEBHOOK"
	// SourceVerifiedSession carries facts re-fetched from the provider.
	SourceVerifiedSession ConfirmationSource = "VERIFIED_SESSION"
	// SourceClientAssertion carries client-supplied facts without an
	// independent provider round trip. Weakest trust level.
	SourceClientAssertion ConfirmationSource = "CLIENT_ASSERTION"
)

// PaymentConfirmation is the normalized input to reconciliation. All three
// triggers reduce to this value; the reconciliation algorithm itself does not
// branch on the source.
type PaymentConfirmation struct {
	Source    ConfirmationSource `json:"source"`
	Status    PaymentStatus      `json:"status"`
	Amount    int64              `json:"amount"` // Minor units (cents)
	PaymentID string             `json:"payment_id"`
	SessionID string             `json:"session_id,omitempty"`
}

// Settled reports whether the confirmation represents a paid transaction.
func (c PaymentConfirmation) Settled() bool {
	return c.Status == PaymentStatusCompleted
}

// ReconciliationRequest bundles the identifiers and confirmation a trigger
// hands to the reconciliation service.
type ReconciliationRequest struct {
	UserID        uuid.UUID
	CourseID      uuid.UUID
	Confirmation  PaymentConfirmation
	CorrelationID string
}
