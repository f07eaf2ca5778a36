// models/contact.go
package models

// ContactRequest is the body for POST /api/contact. Interest selects which
// inbox template the relay uses.
type ContactRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Interest     string `json:"interest" validate:"required,oneof=services employment"`
	Message      string `json:"message" validate:"required"`
	CaptchaToken string `json:"captchaToken" validate:"required"`
}
