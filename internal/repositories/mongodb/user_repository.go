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

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// GetOrCreate resolves a username, creating the record on first sight. The
// upsert races safely against itself thanks to the unique index on username:
// the losing writer's upsert turns into a plain match.
func (r *UserRepository) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	now := time.Now()
	filter := bson.M{"username": username}
	update := bson.M{
		"$setOnInsert": bson.M{
			"username":       username,
			"xp":             0,
			"pendingXpSpend": 0,
			"createdAt":      now,
			"updatedAt":      now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &user, nil
}

// ReserveUnlock reserves requiredXP as pending spend and marks the event
// unlocked. The filter requires the balance to cover the reservation and the
// event to not already be unlocked, so a double unlock or an unlock beyond
// the balance matches nothing.
func (r *UserRepository) ReserveUnlock(ctx context.Context, username, eventID string, requiredXP int) (bool, error) {
	unlockedField := "unlockedEvents." + eventID
	filter := bson.M{
		"username":    username,
		"xp":          bson.M{"$gte": requiredXP},
		unlockedField: bson.M{"$ne": true},
	}
	update := bson.M{
		"$inc": bson.M{"pendingXpSpend": requiredXP},
		"$set": bson.M{
			unlockedField: true,
			"updatedAt":   time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// AddXP atomically increments the XP balance
func (r *UserRepository) AddXP(ctx context.Context, username string, amount int) error {
	update := bson.M{
		"$inc": bson.M{"xp": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"username": username}, update)
	return err
}

// SettlePendingXP pays the full pending spend down to zero. The guard lives
// in the filter: pending must be positive and the balance must cover it, so
// an overdraft or a concurrent double settlement matches nothing.
func (r *UserRepository) SettlePendingXP(ctx context.Context, username string) (bool, error) {
	filter := bson.M{
		"username":       username,
		"pendingXpSpend": bson.M{"$gt": 0},
		"$expr":          bson.M{"$gte": bson.A{"$xp", "$pendingXpSpend"}},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"xp":             bson.M{"$subtract": bson.A{"$xp", "$pendingXpSpend"}},
			"pendingXpSpend": 0,
			"updatedAt":      time.Now(),
		}}},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
