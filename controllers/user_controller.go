// controllers/user_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brighthaven/brighthaven_backend/middleware"
	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/repositories"
	"github.com/brighthaven/brighthaven_backend/utils"
)

// UserController handles admin user management and the self-service profile.
type UserController struct {
	users  *repositories.UserRepository
	logger *log.Logger
}

func NewUserController(db *mongo.Client) *UserController {
	return &UserController{
		users:  repositories.NewUserRepository(db),
		logger: log.New(os.Stdout, "[USERS] ", log.LstdFlags),
	}
}

// GetAllUsers handles GET /api/admin/users, newest profiles first.
func (uc *UserController) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := uc.users.ListAll(ctx)
	if err != nil {
		uc.logger.Printf("Failed to list users: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve users",
		})
	}
	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// UpdateUser handles PATCH /api/admin/users/:id. Only role and status can be
// changed, and an administrator can never change their own role.
func (uc *UserController) UpdateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.Role == nil && req.Status == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Nothing to update",
		})
	}

	fields := bson.M{}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Role must be either admin or employee",
			})
		}
		actorID, err := middleware.ExtractUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Authentication required",
			})
		}
		if decision := middleware.AuthorizeRoleChange(actorID, id.Hex()); !decision.Allowed {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: decision.Reason,
			})
		}
		fields["role"] = *req.Role
	}
	if req.Status != nil {
		switch *req.Status {
		case models.StatusPending, models.StatusApproved, models.StatusRejected:
			fields["status"] = *req.Status
		default:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Status must be pending, approved or rejected",
			})
		}
	}

	if err := uc.users.UpdateFields(ctx, id, fields); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		uc.logger.Printf("Failed to update user %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}

	updated, err := uc.users.Get(ctx, id)
	if err != nil || updated == nil {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "User updated successfully",
		})
	}
	updated.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated successfully",
		Data:    updated,
	})
}

// Me handles GET /api/users/me for the signed-in profile.
func (uc *UserController) Me(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UploadProfilePhoto handles POST /api/users/me/photo with a multipart image.
func (uc *UserController) UploadProfilePhoto(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Photo file is required",
		})
	}
	if err := utils.ValidateImageFile(file); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	path, err := utils.SaveImage(file, "profiles")
	if err != nil {
		uc.logger.Printf("Failed to save profile photo for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save photo",
		})
	}

	old := user.PhotoPath
	if err := uc.users.UpdateFields(ctx, user.ID, bson.M{"photoPath": path}); err != nil {
		utils.RemoveUpload(path)
		uc.logger.Printf("Failed to store photo path for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save photo",
		})
	}
	if old != "" {
		utils.RemoveUpload(old)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Photo uploaded successfully",
		Data:    map[string]interface{}{"photoPath": path},
	})
}
