// controllers/promotion_controller.go
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

// PromotionController manages the marketing banners shown on the public site.
type PromotionController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewPromotionController(db *mongo.Client) *PromotionController {
	return &PromotionController{
		DB:     db,
		logger: log.New(os.Stdout, "[PROMOTIONS] ", log.LstdFlags),
	}
}

// GetPromotions handles GET /api/promotions, newest first. Public.
func (pc *PromotionController) GetPromotions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "promotions")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		pc.logger.Printf("Failed to list promotions: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve promotions",
		})
	}
	defer cursor.Close(ctx)

	promotions := []models.Promotion{}
	if err := cursor.All(ctx, &promotions); err != nil {
		pc.logger.Printf("Failed to decode promotions: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve promotions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Promotions retrieved successfully",
		Data:    promotions,
	})
}

// CreatePromotion handles POST /api/admin/promotions. The image is required.
func (pc *PromotionController) CreatePromotion(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.PromotionMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Image file is required",
		})
	}
	if err := utils.ValidateImageFile(file); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	imageURL, err := utils.SaveImage(file, "promotions")
	if err != nil {
		pc.logger.Printf("Failed to save promotion image: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save image",
		})
	}

	now := time.Now()
	promotion := models.Promotion{
		ID:          primitive.NewObjectID(),
		Title:       utils.SanitizeInput(req.Title),
		Description: utils.SanitizeInput(req.Description),
		Link:        utils.SanitizeInput(req.Link),
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	collection := config.GetCollection(pc.DB, "promotions")
	if _, err := collection.InsertOne(ctx, promotion); err != nil {
		utils.RemoveUpload(imageURL)
		pc.logger.Printf("Failed to insert promotion: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create promotion",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Promotion created successfully",
		Data:    promotion,
	})
}

// UpdatePromotion handles PUT /api/admin/promotions/:id. A new image replaces
// the old file on disk.
func (pc *PromotionController) UpdatePromotion(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid promotion ID",
		})
	}

	collection := config.GetCollection(pc.DB, "promotions")
	var existing models.Promotion
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Promotion not found",
			})
		}
		pc.logger.Printf("Failed to load promotion %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update promotion",
		})
	}

	var req models.PromotionMultipartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Title != "" {
		update["title"] = utils.SanitizeInput(req.Title)
	}
	if req.Description != "" {
		update["description"] = utils.SanitizeInput(req.Description)
	}
	if req.Link != "" {
		update["link"] = utils.SanitizeInput(req.Link)
	}

	var newImage string
	if file, err := c.FormFile("image"); err == nil {
		if err := utils.ValidateImageFile(file); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		newImage, err = utils.SaveImage(file, "promotions")
		if err != nil {
			pc.logger.Printf("Failed to save promotion image: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save image",
			})
		}
		update["imageUrl"] = newImage
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
		if newImage != "" {
			utils.RemoveUpload(newImage)
		}
		pc.logger.Printf("Failed to update promotion %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update promotion",
		})
	}
	if newImage != "" && existing.ImageURL != "" {
		utils.RemoveUpload(existing.ImageURL)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Promotion updated successfully",
	})
}

// DeletePromotion handles DELETE /api/admin/promotions/:id.
func (pc *PromotionController) DeletePromotion(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid promotion ID",
		})
	}

	collection := config.GetCollection(pc.DB, "promotions")
	var existing models.Promotion
	if err := collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Promotion not found",
			})
		}
		pc.logger.Printf("Failed to delete promotion %s: %v", id.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete promotion",
		})
	}
	if existing.ImageURL != "" {
		utils.RemoveUpload(existing.ImageURL)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Promotion deleted successfully",
	})
}
