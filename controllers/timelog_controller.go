// controllers/timelog_controller.go
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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brighthaven/brighthaven_backend/config"
	"github.com/brighthaven/brighthaven_backend/middleware"
	"github.com/brighthaven/brighthaven_backend/models"
)

// TimeLogController records employee clock-in/clock-out events.
type TimeLogController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewTimeLogController(db *mongo.Client) *TimeLogController {
	return &TimeLogController{
		DB:     db,
		logger: log.New(os.Stdout, "[TIMELOGS] ", log.LstdFlags),
	}
}

func (tlc *TimeLogController) lastEntry(ctx context.Context, userID primitive.ObjectID) (*models.TimeLog, error) {
	collection := config.GetCollection(tlc.DB, "timeLogs")
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var entry models.TimeLog
	err := collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Punch handles POST /api/timelogs. Entries must alternate: a clock-in may
// only follow a clock-out (or nothing), and vice versa.
func (tlc *TimeLogController) Punch(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.TimeLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Type must be either in or out",
		})
	}

	last, err := tlc.lastEntry(ctx, user.ID)
	if err != nil {
		tlc.logger.Printf("Failed to read last time log for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record time log",
		})
	}
	if last != nil && last.Type == req.Type {
		message := "You are already clocked in"
		if req.Type == models.ClockOut {
			message = "You are already clocked out"
		}
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: message,
		})
	}
	if last == nil && req.Type == models.ClockOut {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot clock out before clocking in",
		})
	}

	entry := models.TimeLog{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Type:      req.Type,
		Timestamp: time.Now(),
	}
	collection := config.GetCollection(tlc.DB, "timeLogs")
	if _, err := collection.InsertOne(ctx, entry); err != nil {
		tlc.logger.Printf("Failed to insert time log for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record time log",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Time log recorded",
		Data:    entry,
	})
}

// LastEntry handles GET /api/timelogs/last so the client can render the
// correct punch button.
func (tlc *TimeLogController) LastEntry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	last, err := tlc.lastEntry(ctx, user.ID)
	if err != nil {
		tlc.logger.Printf("Failed to read last time log for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve time log",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Last time log retrieved",
		Data:    last,
	})
}
