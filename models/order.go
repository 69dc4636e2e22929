package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. An order is created as pending by settlement and
// moved through the rest of the lifecycle by fulfillment.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// Order is a durable record of a captured payment. TransactionID is
// the payment provider's payment-intent id and carries a unique index:
// the same captured charge can never produce two orders, no matter how
// many checkout sessions or settlement retries reference it.
type Order struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	PlantID       string             `json:"plant_id" bson:"plant_id"`
	TransactionID string             `json:"transaction_id" bson:"transaction_id"`
	CustomerEmail string             `json:"customer_email" bson:"customer_email"`
	CustomerName  string             `json:"customer_name" bson:"customer_name"`
	Status        string             `json:"status" bson:"status"`
	Seller        Seller             `json:"seller" bson:"seller"`
	Name          string             `json:"name" bson:"name"`
	Category      string             `json:"category" bson:"category"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	Price         float64            `json:"price" bson:"price"`
	Image         string             `json:"image,omitempty" bson:"image,omitempty"`
	// StockAdjusted records whether the inventory decrement for this
	// order has been applied. False after a crash between the order
	// insert and the decrement; such orders are discoverable for repair.
	StockAdjusted bool      `json:"-" bson:"stock_adjusted"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
