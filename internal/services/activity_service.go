package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ActivityServiceImpl implements ActivityService
var _ ActivityService = (*ActivityServiceImpl)(nil)

// ActivityServiceImpl handles admin quiz/poll CRUD.
type ActivityServiceImpl struct {
	activityRepo repositories.ActivityRepository
}

// NewActivityService creates a new ActivityServiceImpl
func NewActivityService(activityRepo repositories.ActivityRepository) *ActivityServiceImpl {
	return &ActivityServiceImpl{
		activityRepo: activityRepo,
	}
}

// CreateActivity validates and stores a new quiz or poll.
func (s *ActivityServiceImpl) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if activity.Title == "" {
		return errors.New("activity title is required")
	}
	if len(activity.Questions) == 0 {
		return errors.New("at least one question is required")
	}
	if activity.XP < 0 {
		return errors.New("xp must not be negative")
	}
	for i, q := range activity.Questions {
		if q.Prompt == "" {
			return fmt.Errorf("question %d is missing a prompt", i+1)
		}
		if (q.Type == models.QuestionTypeMCQ || q.Type == models.QuestionTypePoll) && len(q.Options) < 2 {
			return fmt.Errorf("question %d needs at least two options", i+1)
		}
	}
	activity.Submissions = nil

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		slog.Error("failed to create activity", "title", activity.Title, "error", err)
		return fmt.Errorf("failed to create activity: %w", err)
	}
	slog.Info("activity created", "activityId", activity.ID.Hex(), "title", activity.Title, "xp", activity.XP)
	return nil
}

// GetActivityByID retrieves a single activity, including its submissions.
func (s *ActivityServiceImpl) GetActivityByID(ctx context.Context, activityID string) (*models.Activity, error) {
	oid, err := primitive.ObjectIDFromHex(activityID)
	if err != nil {
		return nil, ErrActivityNotFound
	}
	activity, err := s.activityRepo.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to retrieve activity: %w", err)
	}
	return activity, nil
}

// GetAllActivities retrieves all activities
func (s *ActivityServiceImpl) GetAllActivities(ctx context.Context) ([]*models.Activity, error) {
	activities, err := s.activityRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve activities: %w", err)
	}
	return activities, nil
}

// DeleteActivity removes an activity
func (s *ActivityServiceImpl) DeleteActivity(ctx context.Context, activityID string) error {
	oid, err := primitive.ObjectIDFromHex(activityID)
	if err != nil {
		return ErrActivityNotFound
	}
	if err := s.activityRepo.Delete(ctx, oid); err != nil {
		slog.Error("failed to delete activity", "activityId", activityID, "error", err)
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	slog.Info("activity deleted", "activityId", activityID)
	return nil
}
