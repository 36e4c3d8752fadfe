// Package payments wraps the external payment provider behind a small
// gateway interface so the reconciliation core never touches provider SDK
// types directly.
package payments

import (
	"context"
	"errors"

	"github.com/skillforge-lms/internal/domain/shared"
)

// Gateway errors. Provider-side failures are split into "the provider could
// not be reached" (retryable) and "the provider does not know this session".
var (
	ErrGatewayUnavailable = errors.New("payment provider is unavailable")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrInvalidSignature   = errors.New("webhook signature verification failed")
)

// Metadata keys embedded on checkout sessions so verification can recover
// the purchase facts without trusting client input.
const (
	MetadataUserID   = "user_id"
	MetadataCourseID = "course_id"
	MetadataAmount   = "amount"
)

// CheckoutParams describes one hosted-checkout request
type CheckoutParams struct {
	UserID     string
	CourseID   string
	CourseName string
	Amount     int64 // Minor units (cents)
	Currency   string
}

// CheckoutSession is the provider's handle for a hosted payment page
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionDetails carries the authoritative payment facts for a session as
// reported by the provider.
type SessionDetails struct {
	ID              string
	PaymentIntentID string
	Status          shared.PaymentStatus
	AmountTotal     int64 // Minor units (cents)
	Metadata        map[string]string
}

// WebhookEvent is a provider event whose signature has been verified.
// Session is populated for checkout-completion events and nil for event
// types this system ignores.
type WebhookEvent struct {
	Type    string
	Session *SessionDetails
}

// Gateway defines the payment provider operations the platform consumes
type Gateway interface {
	// CreateCheckoutSession requests a hosted payment page with the purchase
	// facts embedded as session metadata.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// RetrieveSession fetches authoritative payment status from the provider.
	RetrieveSession(ctx context.Context, sessionID string) (*SessionDetails, error)

	// VerifyWebhookSignature cryptographically verifies that the payload
	// originated from the provider. This check precedes any trust in the
	// payload contents.
	VerifyWebhookSignature(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
