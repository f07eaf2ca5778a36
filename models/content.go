// models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Promotion is a marketing banner managed by administrators.
type Promotion struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title,omitempty" bson:"title,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	Link        string             `json:"link,omitempty" bson:"link,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PromotionMultipartRequest is the multipart form for creating or updating a
// promotion. The image file travels alongside as "image".
type PromotionMultipartRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Link        string `form:"link"`
}

// Testimonial is a client quote shown on the public site.
type Testimonial struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Quote     string             `json:"quote" bson:"quote"`
	Rating    int                `json:"rating" bson:"rating"` // 1..5
	ImageURL  string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TestimonialMultipartRequest is the multipart form for creating or updating
// a testimonial.
type TestimonialMultipartRequest struct {
	Name   string `form:"name"`
	Quote  string `form:"quote"`
	Rating int    `form:"rating"`
}
