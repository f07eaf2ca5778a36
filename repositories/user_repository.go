// repositories/user_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brighthaven/brighthaven_backend/config"
	"github.com/brighthaven/brighthaven_backend/models"
)

// UserRepository is the store adapter for the users collection. Documents
// are decoded into models.User at this boundary; callers never see raw
// store documents.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
	}
}

// Get returns the profile for an identity id, or nil when absent.
func (r *UserRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the profile with the given email, or nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Upsert writes the profile keyed by its id. Re-running an approval lands on
// the same document, so concurrent approvals resolve last-writer-wins rather
// than duplicating profiles.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, opts)
	return err
}

// UpdateFields applies a partial update to a profile.
func (r *UserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListAll returns every profile, newest first, ties broken by id.
func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of profiles. Zero means the next approved profile
// is the first one ever created.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
