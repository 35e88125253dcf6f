package repositories

import (
	"context"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventRepository defines the interface for event data operations.
//
// AddRegistrant and SettleWinners are conditional writes: the business
// precondition travels in the update filter, so a write either commits or
// matches nothing. The returned bool reports whether the write committed.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	FindAll(ctx context.Context) ([]*models.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddRegistrant appends a registrant unless the username is already
	// registered.
	AddRegistrant(ctx context.Context, eventID primitive.ObjectID, registrant models.Registrant) (bool, error)
	// SettleWinners persists winners and assigned codes only if the event
	// has not been settled yet (compare-and-set on winners being absent).
	SettleWinners(ctx context.Context, eventID primitive.ObjectID, winners []string, assignedCodes map[string]string) (bool, error)
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// GetOrCreate resolves a username to its user record, creating it with
	// zero balances on first sight. Concurrent calls for the same new
	// username must converge on a single record.
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// ReserveUnlock marks an event unlocked and reserves requiredXP as
	// pending spend, guarded on the balance covering the reservation and
	// the event not already being unlocked.
	ReserveUnlock(ctx context.Context, username, eventID string, requiredXP int) (bool, error)
	// AddXP atomically increments the XP balance.
	AddXP(ctx context.Context, username string, amount int) error
	// SettlePendingXP deducts the full pending spend from the balance,
	// guarded on pending > 0 and the balance covering it.
	SettlePendingXP(ctx context.Context, username string) (bool, error)
}

// ActivityRepository defines the interface for quiz/poll data operations.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error)
	FindAll(ctx context.Context) ([]*models.Activity, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddSubmissionAndAwardXP records a submission keyed by user id and
	// credits the flat XP award in one transaction. It reports false
	// without writing anything when the user already has a submission.
	AddSubmissionAndAwardXP(ctx context.Context, activityID primitive.ObjectID, userID string, submission models.Submission, xp int) (bool, error)
}

// AdminUserRepository defines the interface for admin account operations.
type AdminUserRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

// DeviceTokenRepository defines the interface for push-token registry
// operations.
type DeviceTokenRepository interface {
	Upsert(ctx context.Context, username, token string) error
	FindByUsernames(ctx context.Context, usernames []string) ([]*models.DeviceToken, error)
}
