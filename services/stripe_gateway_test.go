package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sohan0019/PlantNet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateCheckoutSession_RejectsNonPositiveAmount(t *testing.T) {
	g := NewStripeGateway("sk_test_x", "whsec_x", "http://localhost:5173")
	customer := models.Customer{Name: "Alice", Email: "alice@example.com"}

	free := &models.Plant{ID: primitive.NewObjectID(), Name: "Freebie", Price: 0}
	_, err := g.CreateCheckoutSession(context.Background(), free, 1, customer)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	priced := &models.Plant{ID: primitive.NewObjectID(), Name: "Fern", Price: 4.50}
	_, err = g.CreateCheckoutSession(context.Background(), priced, 0, customer)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMapStripeError(t *testing.T) {
	missing := &stripe.Error{Code: stripe.ErrorCodeResourceMissing, HTTPStatusCode: 404}
	assert.ErrorIs(t, mapStripeError(missing), ErrSessionNotFound)

	serverSide := &stripe.Error{HTTPStatusCode: 503}
	assert.ErrorIs(t, mapStripeError(serverSide), ErrGatewayUnavailable)

	// Provider rejected the request; retrying will not help.
	clientSide := &stripe.Error{Code: stripe.ErrorCodeParameterInvalidEmpty, HTTPStatusCode: 400}
	err := mapStripeError(clientSide)
	assert.False(t, errors.Is(err, ErrGatewayUnavailable))
	assert.False(t, errors.Is(err, ErrSessionNotFound))

	// No provider response at all counts as unavailable.
	assert.ErrorIs(t, mapStripeError(errors.New("dial tcp: timeout")), ErrGatewayUnavailable)
}
