package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/skillforge-lms/internal/config"
	"github.com/skillforge-lms/internal/domain/shared"
)

// Event types this system reacts to. Everything else is acknowledged and
// ignored.
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// StripeGateway implements the Gateway interface using the Stripe SDK
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        *slog.Logger
}

// NewStripeGateway creates a Stripe-backed payment gateway
func NewStripeGateway(logger *slog.Logger, cfg *config.StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is not configured")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("stripe webhook secret is not configured")
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		logger:        logger,
	}, nil
}

// CreateCheckoutSession requests a hosted checkout page. The user, course,
// and amount ride along as session metadata so the webhook and verify paths
// can recover them from the provider instead of the client.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.CourseName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	sessionParams.Context = ctx
	sessionParams.AddMetadata(MetadataUserID, params.UserID)
	sessionParams.AddMetadata(MetadataCourseID, params.CourseID)
	sessionParams.AddMetadata(MetadataAmount, strconv.FormatInt(params.Amount, 10))

	s, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		g.logger.Error("Failed to create checkout session",
			"course_id", params.CourseID,
			"user_id", params.UserID,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// RetrieveSession fetches the session from Stripe and normalizes it
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*SessionDetails, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx

	s, err := g.api.CheckoutSessions.Get(sessionID, getParams)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		g.logger.Error("Failed to retrieve checkout session",
			"session_id", sessionID,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return normalizeSession(s), nil
}

// VerifyWebhookSignature verifies the Stripe-Signature header against the
// endpoint secret and maps checkout-completion events to the normalized
// form. Returns ErrInvalidSignature before reading any payload field when
// verification fails.
func (g *StripeGateway) VerifyWebhookSignature(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &WebhookEvent{Type: string(event.Type)}

	switch result.Type {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session from event: %w", err)
		}
		result.Session = normalizeSession(&s)
	}

	return result, nil
}

// normalizeSession maps a Stripe checkout session onto the provider-agnostic
// details the reconciliation core consumes.
func normalizeSession(s *stripe.CheckoutSession) *SessionDetails {
	details := &SessionDetails{
		ID:          s.ID,
		AmountTotal: s.AmountTotal,
		Metadata:    s.Metadata,
	}

	if s.PaymentIntent != nil {
		details.PaymentIntentID = s.PaymentIntent.ID
	}

	switch s.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid,
		stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		details.Status = shared.PaymentStatusCompleted
	default:
		details.Status = shared.PaymentStatusPending
	}

	return details
}
