package models

import "strconv"

// Checkout session payment states as reported by the provider.
const (
	SessionStatusPaid   = "paid"
	SessionStatusUnpaid = "unpaid"
)

// Metadata keys embedded into the provider session at creation and
// echoed back verbatim on retrieval. Settlement depends on these.
const (
	MetaPlantID       = "plant_id"
	MetaCustomerEmail = "customer_email"
	MetaCustomerName  = "customer_name"
	MetaQuantity      = "quantity"
)

// Customer is the buyer identity attached to a checkout session.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CheckoutRequest starts a hosted checkout for a single plant.
type CheckoutRequest struct {
	PlantID  string `json:"plant_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Name     string `json:"name"`
}

// CheckoutSessionRef is the handle returned by session creation:
// the redirect URL for the buyer and the provider-issued session id.
type CheckoutSessionRef struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutSession is the provider's view of a session at retrieval
// time. PaymentIntentID identifies the captured charge and is the
// de-duplication key for orders; SessionID is not, because a buyer
// may open several sessions for the same purchase attempt.
type CheckoutSession struct {
	SessionID       string
	PaymentIntentID string
	PaymentStatus   string
	AmountTotal     int64 // minor units
	Metadata        map[string]string
}

// Quantity reads the requested quantity out of session metadata,
// defaulting to 1 when absent or malformed.
func (s *CheckoutSession) Quantity() int {
	if raw, ok := s.Metadata[MetaQuantity]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

// SettlementResult reports the outcome of settling a paid session.
// Only the transaction and order ids are part of the response body.
type SettlementResult struct {
	TransactionID  string `json:"transactionId"`
	OrderID        string `json:"orderId"`
	PlantID        string `json:"-"`
	AlreadySettled bool   `json:"-"`
}
