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

// Compile-time check to ensure ActivityRepository implements the interface
var _ repositories.ActivityRepository = (*ActivityRepository)(nil)

// ActivityRepository handles MongoDB operations for Activity
type ActivityRepository struct {
	activities *mongo.Collection
	users      *mongo.Collection
	client     *mongo.Client
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		activities: db.Collection("activities"),
		users:      db.Collection("users"),
		client:     db.Client(),
	}
}

// Create inserts a new activity
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = time.Now()
	_, err := r.activities.InsertOne(ctx, activity)
	return err
}

// FindByID finds an activity by ID
func (r *ActivityRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var activity models.Activity
	err := r.activities.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &activity, nil
}

// FindAll retrieves all activities, newest first
func (r *ActivityRepository) FindAll(ctx context.Context) ([]*models.Activity, error) {
	opts := options.Find().SetSort(bson.M{"startTime": -1})
	cursor, err := r.activities.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []*models.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Delete deletes an activity by ID
func (r *ActivityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.activities.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddSubmissionAndAwardXP records the submission and credits the XP award in
// a single multi-document transaction, so a submission is never persisted
// without its award or vice versa.
//
// The submission is keyed by the resolved user id and the update filter
// requires that key to be absent, which makes a racing duplicate submission
// match nothing instead of double-writing.
func (r *ActivityRepository) AddSubmissionAndAwardXP(ctx context.Context, activityID primitive.ObjectID, userID string, submission models.Submission, xp int) (bool, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	submissionField := "submissions." + userID
	committed := false

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{
			"_id":           activityID,
			submissionField: bson.M{"$exists": false},
		}
		update := bson.M{
			"$set": bson.M{
				submissionField: submission,
				"updatedAt":     time.Now(),
			},
		}
		res, err := r.activities.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			// Already submitted; nothing to award.
			return nil, nil
		}

		award := bson.M{
			"$inc": bson.M{"xp": xp},
			"$set": bson.M{"updatedAt": time.Now()},
		}
		if _, err := r.users.UpdateOne(sc, bson.M{"username": submission.Username}, award); err != nil {
			return nil, err
		}
		committed = true
		return nil, nil
	})
	if err != nil {
		return false, err
	}
	return committed, nil
}
