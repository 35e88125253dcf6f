package services

import (
	"context"
	"errors"
	"time"

	"github.com/bitsim/lucky-draw-backend/internal/models"
)

// ErrEventNotFound is returned when an event id does not resolve to a
// document.
var ErrEventNotFound = errors.New("event not found")

// ErrActivityNotFound is returned when an activity id does not resolve to a
// document.
var ErrActivityNotFound = errors.New("activity not found")

// WinnerService defines the interface for winner determination
type WinnerService interface {
	// DetermineWinners settles an event whose result time has passed,
	// selecting winners per the event's selection mode and persisting them
	// exactly once. Calling it on a settled event, or before the result
	// time, returns the event unchanged.
	DetermineWinners(ctx context.Context, eventID string) (*models.Event, error)
}

// RegistrationService defines the interface for event registration and
// XP-gated unlocking
type RegistrationService interface {
	RegisterForEvent(ctx context.Context, eventID, username string) models.Result
}

// QuizService defines the interface for activity answer submission
type QuizService interface {
	SubmitAnswer(ctx context.Context, activityID, username string, answers []string) models.Result
}

// UserService defines the interface for the user directory and XP settlement
type UserService interface {
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	PayPendingXP(ctx context.Context, username string) models.Result
}

// EventService defines the interface for admin event CRUD
type EventService interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, eventID string) (*models.Event, error)
	GetAllEvents(ctx context.Context) ([]*models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// ActivityService defines the interface for admin activity CRUD and results
type ActivityService interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetActivityByID(ctx context.Context, activityID string) (*models.Activity, error)
	GetAllActivities(ctx context.Context) ([]*models.Activity, error)
	DeleteActivity(ctx context.Context, activityID string) error
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	EnsureSeedAdmin(ctx context.Context) error
}

// NotificationService defines the interface for the push-token registry
type NotificationService interface {
	SaveToken(ctx context.Context, username, token string) error
	TokensForUsernames(ctx context.Context, usernames []string) ([]*models.DeviceToken, error)
}

// SettleLocker is an advisory mutual-exclusion primitive keyed by string.
// Acquire returns a release func when the lock was taken. Winner settlement
// uses it to keep concurrent callers from each running a lottery; correctness
// does not depend on it.
type SettleLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}
