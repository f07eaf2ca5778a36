// middleware/auth_middleware.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brighthaven/brighthaven_backend/config"
	"github.com/brighthaven/brighthaven_backend/models"
)

// CurrentUserKey is the echo context key carrying the loaded profile.
const CurrentUserKey = "currentUser"

// RequireApproved loads the authenticated identity's profile from the store
// and denies the request unless the profile is approved. The profile is
// stored in the context for handlers. Reading the live profile, rather than
// trusting the token's role claim, makes role and status changes effective
// on the next request.
func RequireApproved(db *mongo.Client) echo.MiddlewareFunc {
	return requireProfile(db, "")
}

// RequireRole behaves like RequireApproved and additionally requires the
// profile to carry the given role.
func RequireRole(db *mongo.Client, role string) echo.MiddlewareFunc {
	return requireProfile(db, role)
}

func requireProfile(db *mongo.Client, requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := ExtractUserID(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: DenyUnauthenticated,
				})
			}

			objID, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: DenyUnauthenticated,
				})
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var user models.User
			err = config.GetCollection(db, "users").FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					// Identity without a profile: half-registered session.
					return c.JSON(http.StatusForbidden, models.Response{
						Status:  http.StatusForbidden,
						Message: DenyNotApproved,
					})
				}
				return c.JSON(http.StatusInternalServerError, models.Response{
					Status:  http.StatusInternalServerError,
					Message: "Failed to load user profile",
				})
			}

			if decision := Authorize(&user, requiredRole); !decision.Allowed {
				status := http.StatusForbidden
				if decision.Reason == DenyUnauthenticated {
					status = http.StatusUnauthorized
				}
				return c.JSON(status, models.Response{
					Status:  status,
					Message: decision.Reason,
				})
			}

			user.Password = ""
			c.Set(CurrentUserKey, &user)
			return next(c)
		}
	}
}

// GetCurrentUser returns the profile loaded by RequireApproved/RequireRole.
func GetCurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(CurrentUserKey).(*models.User)
	return user
}
