package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

const (
	msgActivityNotFound  = "This activity does not exist or has been removed."
	msgActivityNotActive = "This activity is not currently active."
	msgAlreadySubmitted  = "You have already submitted an answer."
	msgIncompleteAnswers = "Please answer every question."
	msgSubmissionFailed  = "An error occurred while submitting your answer."
)

// Compile-time check to ensure QuizServiceImpl implements QuizService
var _ QuizService = (*QuizServiceImpl)(nil)

// QuizServiceImpl accepts answer submissions for live activities and awards
// the flat XP reward on first completion.
type QuizServiceImpl struct {
	activityRepo repositories.ActivityRepository
	userRepo     repositories.UserRepository
	now          func() time.Time
}

// NewQuizService creates a new QuizServiceImpl
func NewQuizService(activityRepo repositories.ActivityRepository, userRepo repositories.UserRepository, now func() time.Time) *QuizServiceImpl {
	return &QuizServiceImpl{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		now:          now,
	}
}

// SubmitAnswer records a submission and credits the activity's XP in one
// atomic step. At most one submission per username is accepted; the pre-check
// scans usernames for the user-facing message, and the keyed write inside the
// repository closes the remaining race.
func (s *QuizServiceImpl) SubmitAnswer(ctx context.Context, activityID, username string, answers []string) models.Result {
	oid, err := primitive.ObjectIDFromHex(activityID)
	if err != nil {
		return models.Failure(msgActivityNotFound)
	}

	user, err := s.userRepo.GetOrCreate(ctx, username)
	if err != nil {
		slog.Error("failed to resolve user for submission", "username", username, "error", err)
		return models.Failure(msgSubmissionFailed)
	}

	activity, err := s.activityRepo.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Failure(msgActivityNotFound)
		}
		slog.Error("failed to load activity", "activityId", activityID, "error", err)
		return models.Failure(msgSubmissionFailed)
	}

	now := s.now().UnixMilli()
	if now < activity.StartTime || now > activity.EndTime {
		return models.Failure(msgActivityNotActive)
	}

	if activity.HasSubmissionFrom(username) {
		return models.Failure(msgAlreadySubmitted)
	}

	if len(answers) != len(activity.Questions) {
		return models.Failure(msgIncompleteAnswers)
	}

	submission := models.Submission{
		Username:    username,
		Answers:     answers,
		SubmittedAt: now,
	}
	committed, err := s.activityRepo.AddSubmissionAndAwardXP(ctx, oid, user.ID.Hex(), submission, activity.XP)
	if err != nil {
		slog.Error("failed to record submission", "activityId", activityID, "username", username, "error", err)
		return models.Failure(msgSubmissionFailed)
	}
	if !committed {
		return models.Failure(msgAlreadySubmitted)
	}

	slog.Info("activity submission recorded", "activityId", activityID, "username", username, "awardedXp", activity.XP)
	return models.Ok(fmt.Sprintf("Congratulations! You've earned %d XP.", activity.XP))
}
