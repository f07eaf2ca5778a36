// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles assignable to a profile.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Approval statuses shared by profiles and registration requests.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User is the application profile for an authenticated identity. Only
// approved users may access protected routes.
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"password,omitempty" bson:"password"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      string             `json:"role" bson:"role"`     // "admin" or "employee"
	Status    string             `json:"status" bson:"status"` // "pending", "approved", "rejected"
	PhotoPath string             `json:"photoPath,omitempty" bson:"photoPath,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsApproved reports whether the profile may be used for access.
func (u *User) IsApproved() bool {
	return u != nil && u.Status == StatusApproved
}

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body for PUT /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// UpdateUserRequest is the body for PATCH /api/admin/users/:id. Nil fields
// are left untouched.
type UpdateUserRequest struct {
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Response is the common JSON envelope.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
