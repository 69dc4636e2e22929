package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

type User struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	Role         string             `json:"role" bson:"role"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	LastLoggedIn time.Time          `json:"last_logged_in" bson:"last_logged_in"`
}

// SellerRequest is a pending request from a customer to be upgraded
// to the seller role. At most one request per email.
type SellerRequest struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	RequestedAt time.Time          `json:"requested_at" bson:"requested_at"`
}

// UpsertUserRequest is sent on login to create or refresh a user.
type UpsertUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Image string `json:"image"`
}

// UpdateRoleRequest promotes or demotes a user (admin only).
type UpdateRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=customer seller admin"`
}
