// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brighthaven/brighthaven_backend/config"
	"github.com/brighthaven/brighthaven_backend/middleware"
	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB            *mongo.Client
	logger        *log.Logger
	loginAttempts map[string]struct {
		count       int
		lastAttempt time.Time
	}
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	ac := &AuthController{
		DB:     db,
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]struct {
			count       int
			lastAttempt time.Time
		}),
	}
	go ac.startLoginAttemptCleanupRoutine()
	return ac
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ac.loginAttemptsMu.Lock()
		for identifier, attempts := range ac.loginAttempts {
			if time.Since(attempts.lastAttempt) > 30*time.Minute {
				delete(ac.loginAttempts, identifier)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}

func (ac *AuthController) recordFailedAttempt(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()
	attempts := ac.loginAttempts[identifier]
	attempts.count++
	attempts.lastAttempt = time.Now()
	ac.loginAttempts[identifier] = attempts
}

func (ac *AuthController) clearAttempts(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()
	delete(ac.loginAttempts, identifier)
}

// Login authenticates a user by email and password and issues a token pair.
// Profiles that are not approved cannot sign in, whatever their role.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "users")

	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	email, err := utils.SanitizeEmail(loginReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	if loginReq.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password is required",
		})
	}

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[email]
	ac.loginAttemptsMu.RUnlock()
	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			ac.recordFailedAttempt(email)
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid email or password",
			})
		}
		ac.logger.Printf("Login lookup failed for %s: %v", email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process login",
		})
	}

	if err := utils.CheckPassword(loginReq.Password, user.Password); err != nil {
		ac.recordFailedAttempt(email)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if decision := middleware.Authorize(&user, ""); !decision.Allowed {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: decision.Reason,
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		ac.logger.Printf("Token generation failed for %s: %v", email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	ac.clearAttempts(email)
	user.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// Logout revokes the presented access token for the remainder of its lifetime.
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing token",
		})
	}

	claims, err := middleware.ParseToken(tokenString)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	if err := middleware.RevokeToken(tokenString, time.Unix(claims.ExpiresAt, 0)); err != nil {
		ac.logger.Printf("Failed to revoke token: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (ac *AuthController) RefreshToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Refresh token is required",
		})
	}

	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired refresh token",
		})
	}

	// Re-check the profile so a revoked approval cuts off refresh too.
	collection := config.GetCollection(ac.DB, "users")
	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account no longer exists",
		})
	}
	if decision := middleware.Authorize(&user, ""); !decision.Allowed {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: decision.Reason,
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token refreshed",
		Data: map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}

// ValidateToken reports whether the presented token is still accepted.
func (ac *AuthController) ValidateToken(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data: map[string]interface{}{
			"userId": claims.UserID,
			"email":  claims.Email,
			"role":   claims.Role,
		},
	})
}

// ChangePassword lets an authenticated user replace their password. Used in
// particular to retire the temporary credential issued at approval.
func (ac *AuthController) ChangePassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "New password must be at least 6 characters long",
		})
	}

	collection := config.GetCollection(ac.DB, "users")
	var stored models.User
	if err := collection.FindOne(ctx, bson.M{"_id": user.ID}).Decode(&stored); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if err := utils.CheckPassword(req.CurrentPassword, stored.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Current password is incorrect",
		})
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update password",
		})
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"password": hash, "updatedAt": time.Now()},
	})
	if err != nil {
		ac.logger.Printf("Password update failed for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password changed successfully",
	})
}
