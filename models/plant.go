package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seller identifies the user who listed a plant. Embedded in both
// Plant and Order documents so order history survives seller edits.
type Seller struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}

type Plant struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	Image       string             `json:"image" bson:"image"`
	Seller      Seller             `json:"seller" bson:"seller"`
	CreatedAt   time.Time          `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// CreatePlantRequest is the payload accepted from sellers. The seller
// identity is taken from the verified token, never from the body.
type CreatePlantRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"required,gte=0"`
	Image       string  `json:"image"`
}
