// controllers/contact_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/services"
	"github.com/brighthaven/brighthaven_backend/utils"
)

type captchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type contactMailer interface {
	SendContactMessage(msg models.ContactRequest) error
}

// ContactController handles the public contact form: captcha check first,
// then relay to the agency inbox.
type ContactController struct {
	captcha captchaVerifier
	mailer  contactMailer
	logger  *log.Logger
}

func NewContactController(captcha captchaVerifier, mailer contactMailer) *ContactController {
	return &ContactController{
		captcha: captcha,
		mailer:  mailer,
		logger:  log.New(os.Stdout, "[CONTACT] ", log.LstdFlags),
	}
}

// SubmitContactForm handles POST /api/contact.
func (cc *ContactController) SubmitContactForm(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var req models.ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "All fields are required and interest must be services or employment",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	req.Email = email
	req.Name = utils.SanitizeInput(req.Name)
	req.Message = utils.SanitizeInput(req.Message)

	if err := cc.captcha.Verify(ctx, req.CaptchaToken, c.RealIP()); err != nil {
		switch {
		case errors.Is(err, services.ErrCaptchaNotConfigured):
			cc.logger.Printf("Contact form rejected: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Contact form is not available right now",
			})
		case errors.Is(err, services.ErrCaptchaRejected):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Captcha verification failed",
			})
		default:
			cc.logger.Printf("Captcha verification error: %v", err)
			return c.JSON(http.StatusBadGateway, models.Response{
				Status:  http.StatusBadGateway,
				Message: "Could not verify captcha, please try again later",
			})
		}
	}

	if err := cc.mailer.SendContactMessage(req); err != nil {
		if errors.Is(err, services.ErrMailerNotConfigured) {
			cc.logger.Printf("Contact form rejected: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Contact form is not available right now",
			})
		}
		cc.logger.Printf("Failed to relay contact message: %v", err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to deliver your message, please try again later",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Thank you for reaching out. We will get back to you shortly.",
	})
}
