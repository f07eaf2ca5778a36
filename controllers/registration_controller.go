// controllers/registration_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/repositories"
	"github.com/brighthaven/brighthaven_backend/services"
)

// RegistrationController exposes the registration workflow: public submission
// plus the admin review endpoints.
type RegistrationController struct {
	service *services.RegistrationService
	logger  *log.Logger
}

func NewRegistrationController(db *mongo.Client, mailer services.CredentialMailer) *RegistrationController {
	return &RegistrationController{
		service: services.NewRegistrationService(
			repositories.NewUserRepository(db),
			repositories.NewRegistrationRepository(db),
			mailer,
		),
		logger: log.New(os.Stdout, "[REGISTRATION] ", log.LstdFlags),
	}
}

// Register handles POST /api/register.
func (rc *RegistrationController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	created, err := rc.service.Submit(ctx, req)
	if err != nil {
		switch {
		case services.IsValidation(err):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmailAlreadyRegistered),
			errors.Is(err, services.ErrRegistrationPending):
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: err.Error(),
			})
		default:
			rc.logger.Printf("Failed to submit registration: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to submit registration request",
			})
		}
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Registration request submitted. An administrator will review it shortly.",
		Data: map[string]interface{}{
			"requestId": created.ID.Hex(),
			"status":    created.Status,
		},
	})
}

// GetPendingRegistrations handles GET /api/admin/registrations.
func (rc *RegistrationController) GetPendingRegistrations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	requests, err := rc.service.ListPending(ctx)
	if err != nil {
		rc.logger.Printf("Failed to list pending registrations: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve registration requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending registration requests retrieved",
		Data:    requests,
	})
}

// ApproveRegistration handles POST /api/admin/registrations/:id/approve.
// The temporary password appears exactly once, in this response; after that
// only its hash exists.
func (rc *RegistrationController) ApproveRegistration(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid registration request ID",
		})
	}

	var req models.ApproveRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	profile, tempPassword, err := rc.service.Approve(ctx, id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmailAlreadyRegistered):
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: err.Error(),
			})
		case services.IsValidation(err):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		default:
			rc.logger.Printf("Failed to approve registration %s: %v", id.Hex(), err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to approve registration request",
			})
		}
	}

	data := map[string]interface{}{
		"profileId": profile.ID.Hex(),
		"email":     profile.Email,
		"role":      profile.Role,
		"status":    profile.Status,
	}
	message := "Registration request was already approved"
	if tempPassword != "" {
		data["tempPassword"] = tempPassword
		message = "Registration approved"
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// RejectRegistration handles POST /api/admin/registrations/:id/reject.
func (rc *RegistrationController) RejectRegistration(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid registration request ID",
		})
	}

	if err := rc.service.Reject(ctx, id); err != nil {
		rc.logger.Printf("Failed to reject registration %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reject registration request",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Registration request rejected",
	})
}
