package mongodb

import (
	"context"
	"time"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure EventRepository implements the interface
var _ repositories.EventRepository = (*EventRepository)(nil)

// EventRepository handles MongoDB operations for Event
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindByID finds an event by ID
func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &event, nil
}

// FindAll retrieves all events, highlighted first, newest first within each
// group
func (r *EventRepository) FindAll(ctx context.Context) ([]*models.Event, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "isHighlighted", Value: -1},
		{Key: "startTime", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete deletes an event by ID
func (r *EventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddRegistrant appends a registrant unless the username is already present.
// The duplicate check rides in the filter so two racing registrations for the
// same username cannot both append.
func (r *EventRepository) AddRegistrant(ctx context.Context, eventID primitive.ObjectID, registrant models.Registrant) (bool, error) {
	filter := bson.M{
		"_id":                      eventID,
		"registeredUsers.username": bson.M{"$ne": registrant.Username},
	}
	update := bson.M{
		"$push": bson.M{"registeredUsers": registrant},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// SettleWinners persists the lottery result with a compare-and-set on the
// winners field being absent. Only one of any number of racing settlements
// ever commits; the losers observe false and must reload.
func (r *EventRepository) SettleWinners(ctx context.Context, eventID primitive.ObjectID, winners []string, assignedCodes map[string]string) (bool, error) {
	if winners == nil {
		winners = []string{}
	}
	if assignedCodes == nil {
		assignedCodes = map[string]string{}
	}
	filter := bson.M{
		"_id":     eventID,
		"winners": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"winners":       winners,
			"assignedCodes": assignedCodes,
			"updatedAt":     time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
