// controllers/testimonial_controller.go
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
	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/utils"
)

// TestimonialController manages client testimonials for the public site.
type TestimonialController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewTestimonialController(db *mongo.Client) *TestimonialController {
	return &TestimonialController{
		DB:     db,
		logger: log.New(os.Stdout, "[TESTIMONIALS] ", log.LstdFlags),
	}
}

// GetTestimonials handles GET /api/testimonials, newest first. Public.
func (tc *TestimonialController) GetTestimonials(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(tc.DB, "testimonials")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		tc.logger.Printf("Failed to list testimonials: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve testimonials",
		})
	}
	defer cursor.Close(ctx)

	testimonials := []models.Testimonial{}
	if err := cursor.All(ctx, &testimonials); err != nil {
		tc.logger.Printf("Failed to decode testimonials: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve testimonials",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Testimonials retrieved successfully",
		Data:    testimonials,
	})
}

// CreateTestimonial handles POST /api/admin/testimonials. The photo is
// optional, unlike promotions.
func (tc *TestimonialController) CreateTestimonial(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.TestimonialMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	name := utils.SanitizeInput(req.Name)
	quote := utils.SanitizeInput(req.Quote)
	if name == "" || quote == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name and quote are required",
		})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rating must be between 1 and 5",
		})
	}

	var imageURL string
	if file, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateImageFile(file); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		imageURL, err = utils.SaveImage(file, "testimonials")
		if err != nil {
			tc.logger.Printf("Failed to save testimonial image: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save image",
			})
		}
	}

	now := time.Now()
	testimonial := models.Testimonial{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Quote:     quote,
		Rating:    req.Rating,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	collection := config.GetCollection(tc.DB, "testimonials")
	if _, err := collection.InsertOne(ctx, testimonial); err != nil {
		if imageURL != "" {
			utils.RemoveUpload(imageURL)
		}
		tc.logger.Printf("Failed to insert testimonial: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create testimonial",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Testimonial created successfully",
		Data:    testimonial,
	})
}

// UpdateTestimonial handles PUT /api/admin/testimonials/:id.
func (tc *TestimonialController) UpdateTestimonial(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid testimonial ID",
		})
	}

	collection := config.GetCollection(tc.DB, "testimonials")
	var existing models.Testimonial
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Testimonial not found",
			})
		}
		tc.logger.Printf("Failed to load testimonial %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update testimonial",
		})
	}

	var req models.TestimonialMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		update["name"] = utils.SanitizeInput(req.Name)
	}
	if req.Quote != "" {
		update["quote"] = utils.SanitizeInput(req.Quote)
	}
	if req.Rating != 0 {
		if req.Rating < 1 || req.Rating > 5 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Rating must be between 1 and 5",
			})
		}
		update["rating"] = req.Rating
	}

	var newImage string
	if file, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateImageFile(file); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		newImage, err = utils.SaveImage(file, "testimonials")
		if err != nil {
			tc.logger.Printf("Failed to save testimonial image: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save image",
			})
		}
		update["image"] = newImage
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
		if newImage != "" {
			utils.RemoveUpload(newImage)
		}
		tc.logger.Printf("Failed to update testimonial %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update testimonial",
		})
	}
	if newImage != "" && existing.ImageURL != "" {
		utils.RemoveUpload(existing.ImageURL)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Testimonial updated successfully",
	})
}

// DeleteTestimonial handles DELETE /api/admin/testimonials/:id.
func (tc *TestimonialController) DeleteTestimonial(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid testimonial ID",
		})
	}

	collection := config.GetCollection(tc.DB, "testimonials")
	var existing models.Testimonial
	if err := collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Testimonial not found",
			})
		}
		tc.logger.Printf("Failed to delete testimonial %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete testimonial",
		})
	}
	if existing.ImageURL != "" {
		utils.RemoveUpload(existing.ImageURL)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Testimonial deleted successfully",
	})
}
