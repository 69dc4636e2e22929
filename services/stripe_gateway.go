package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sohan0019/PlantNet/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Gateway failure modes. ErrGatewayUnavailable covers transient
// transport and provider failures and is the only error the
// reconciliation layer retries.
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrInvalidAmount      = errors.New("invalid checkout amount")
	ErrSessionNotFound    = errors.New("checkout session not found")
)

// PaymentGateway abstracts the hosted-checkout provider. The adapter
// holds no local state; every call is a round trip to the provider and
// safe for the caller to retry.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, plant *models.Plant, quantity int, customer models.Customer) (*models.CheckoutSessionRef, error)
	RetrieveSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
}

// StripeGateway implements PaymentGateway against Stripe Checkout.
type StripeGateway struct {
	webhookSecret string
	clientURL     string
}

// NewStripeGateway configures the Stripe client and returns a gateway.
func NewStripeGateway(secretKey, webhookSecret, clientURL string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret, clientURL: clientURL}
}

// CreateCheckoutSession opens a hosted checkout for a single plant.
// The plant id, buyer identity and requested quantity are embedded in
// session metadata so settlement can recover them from the session
// alone after the buyer returns.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, plant *models.Plant, quantity int, customer models.Customer) (*models.CheckoutSessionRef, error) {
	unitAmount := int64(plant.Price * 100)
	if unitAmount <= 0 || quantity <= 0 {
		return nil, ErrInvalidAmount
	}

	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(plant.Name),
	}
	if plant.Description != "" {
		productData.Description = stripe.String(plant.Description)
	}
	if plant.Image != "" {
		productData.Images = []*string{stripe.String(plant.Image)}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(customer.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount:  stripe.Int64(unitAmount),
					ProductData: productData,
				},
				Quantity: stripe.Int64(int64(quantity)),
			},
		},
		SuccessURL: stripe.String(g.clientURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.clientURL + "/plant/" + plant.ID.Hex()),
	}
	params.Context = ctx
	params.AddMetadata(models.MetaPlantID, plant.ID.Hex())
	params.AddMetadata(models.MetaCustomerEmail, customer.Email)
	params.AddMetadata(models.MetaCustomerName, customer.Name)
	params.AddMetadata(models.MetaQuantity, strconv.Itoa(quantity))

	s, err := session.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return &models.CheckoutSessionRef{SessionID: s.ID, URL: s.URL}, nil
}

// RetrieveSession fetches a session's terminal state, expanding the
// payment intent so the captured-charge id is available for ledger
// de-duplication.
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	sess := &models.CheckoutSession{
		SessionID:     s.ID,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
	if s.PaymentIntent != nil {
		sess.PaymentIntentID = s.PaymentIntent.ID
	}
	return sess, nil
}

// ParseWebhook verifies the Stripe-Signature header and returns the
// decoded event. The body is restored so gin can still drain it.
func (g *StripeGateway) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, fmt.Errorf("read webhook body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return ErrSessionNotFound
		}
		if stripeErr.HTTPStatusCode >= 500 {
			return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		return err
	}
	// Transport-level failure, no provider response.
	return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
}
