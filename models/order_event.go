package models

import "time"

// OrderEvent is published to Kafka after settlement creates an order.
// Downstream consumers (notifications, analytics) key on OrderID.
type OrderEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"` // e.g. "order_created"
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id"`
	PlantID       string    `json:"plant_id"`
	CustomerEmail string    `json:"customer_email"`
	Quantity      int       `json:"quantity"`
	Amount        int64     `json:"amount"`   // minor units
	Currency      string    `json:"currency"` // "usd"
	Timestamp     time.Time `json:"timestamp"`
}

const EventOrderCreated = "order_created"
