// models/registration_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegistrationRequest is a pending application for a profile, awaiting an
// administrator decision. The chosen password is kept only as a bcrypt hash;
// a fresh temporary password is issued at approval time.
type RegistrationRequest struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Phone        string             `json:"phone" bson:"phone"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Status       string             `json:"status" bson:"status"` // "pending" or "approved"
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// RegisterRequest is the body for POST /api/register.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// ApproveRegistrationRequest is the body for
// POST /api/admin/registrations/:id/approve. Role defaults to "employee".
type ApproveRegistrationRequest struct {
	Role string `json:"role,omitempty"`
}
