// repositories/registration_repository.go
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brighthaven/brighthaven_backend/config"
	"github.com/brighthaven/brighthaven_backend/models"
)

// RegistrationRepository is the store adapter for the registrationRequests
// collection.
type RegistrationRepository struct {
	collection *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Client) *RegistrationRepository {
	return &RegistrationRepository{
		collection: config.GetCollection(db, "registrationRequests"),
	}
}

// Insert stores a new request and fills in its store-assigned id.
func (r *RegistrationRepository) Insert(ctx context.Context, req *models.RegistrationRequest) error {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, req)
	return err
}

// Get returns the request with the given id, or nil when absent.
func (r *RegistrationRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.RegistrationRequest, error) {
	var req models.RegistrationRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// FindPendingByEmail returns the pending request for an email, or nil.
func (r *RegistrationRepository) FindPendingByEmail(ctx context.Context, email string) (*models.RegistrationRequest, error) {
	var req models.RegistrationRequest
	err := r.collection.FindOne(ctx, bson.M{"email": email, "status": models.StatusPending}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// ListPending returns the review queue, newest first, ties broken by id.
func (r *RegistrationRepository) ListPending(ctx context.Context) ([]models.RegistrationRequest, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.RegistrationRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// SetStatus marks a request. Used by approval; rejection deletes instead.
func (r *RegistrationRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}

// Delete removes a request. Deleting an absent request is not an error,
// which keeps rejection idempotent.
func (r *RegistrationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
