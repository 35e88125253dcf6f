package mongodb

import (
	"context"
	"time"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure DeviceTokenRepository implements the interface
var _ repositories.DeviceTokenRepository = (*DeviceTokenRepository)(nil)

// DeviceTokenRepository handles MongoDB operations for DeviceToken
type DeviceTokenRepository struct {
	collection *mongo.Collection
}

// NewDeviceTokenRepository creates a new DeviceTokenRepository
func NewDeviceTokenRepository(db *mongo.Database) *DeviceTokenRepository {
	return &DeviceTokenRepository{
		collection: db.Collection("device_tokens"),
	}
}

// Upsert stores the latest token for a username
func (r *DeviceTokenRepository) Upsert(ctx context.Context, username, token string) error {
	filter := bson.M{"username": username}
	update := bson.M{
		"$set": bson.M{
			"username":  username,
			"token":     token,
			"updatedAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByUsernames retrieves tokens for the given usernames
func (r *DeviceTokenRepository) FindByUsernames(ctx context.Context, usernames []string) ([]*models.DeviceToken, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"username": bson.M{"$in": usernames}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []*models.DeviceToken
	if err = cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}
