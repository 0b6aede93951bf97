package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// StripeProvider runs checkouts on Stripe Checkout.
type StripeProvider struct {
	client        *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	return &StripeProvider{
		client:        client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in *CheckoutSessionParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(in.CustomerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(in.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.ProductName),
					},
					UnitAmount: stripe.Int64(in.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	session, err := p.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return toCheckoutSession(session), nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := p.client.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	return toCheckoutSession(session), nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	// Only a few long-stable session fields are read, so events rendered in
	// a newer account API version are accepted.
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify webhook: %w", err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type == EventCheckoutSessionCompleted && event.Data != nil {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		out.Session = toCheckoutSession(&session)
	}
	return out, nil
}

func toCheckoutSession(s *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		CustomerEmail: s.CustomerEmail,
		Paid:          s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out
}
