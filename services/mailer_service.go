// services/mailer_service.go
package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/brighthaven/brighthaven_backend/models"
)

// ErrMailerNotConfigured is returned when SMTP settings are missing from the
// environment. Callers that depend on delivery map it to a server error.
var ErrMailerNotConfigured = errors.New("mail relay is not configured")

// MailerService sends transactional mail over the SMTP relay configured via
// SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASS.
type MailerService struct {
	host      string
	port      int
	username  string
	password  string
	recipient string
}

func NewMailerService() *MailerService {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	return &MailerService{
		host:      os.Getenv("SMTP_HOST"),
		port:      port,
		username:  os.Getenv("SMTP_USER"),
		password:  os.Getenv("SMTP_PASS"),
		recipient: os.Getenv("CONTACT_RECIPIENT"),
	}
}

func (s *MailerService) configured() bool {
	return s.host != "" && s.username != ""
}

func (s *MailerService) send(m *gomail.Message) error {
	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return d.DialAndSend(m)
}

// SendContactMessage relays a contact form submission to the configured
// recipient inbox, with the visitor's address as Reply-To.
func (s *MailerService) SendContactMessage(msg models.ContactRequest) error {
	if !s.configured() || s.recipient == "" {
		return ErrMailerNotConfigured
	}

	subject := "New services inquiry"
	if msg.Interest == "employment" {
		subject = "New employment inquiry"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", s.recipient)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", fmt.Sprintf("%s from %s", subject, msg.Name))
	m.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nInterest: %s\n\n%s\n",
		msg.Name, msg.Email, msg.Phone, msg.Interest, msg.Message,
	))
	return s.send(m)
}

// SendTemporaryPassword emails a newly approved user their one-time credential.
func (s *MailerService) SendTemporaryPassword(to, fullName, tempPassword string) error {
	if !s.configured() {
		return ErrMailerNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your account has been approved")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour registration has been approved. You can now sign in with this temporary password:\n\n%s\n\nPlease change it after your first sign-in.\n",
		fullName, tempPassword,
	))
	return s.send(m)
}
