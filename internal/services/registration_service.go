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

// Player-facing registration messages. The success path for an actual
// registration must contain "successful": the web client distinguishes an
// unlock from a registration by that word.
const (
	msgEventNotFound      = "This event does not exist or has been removed."
	msgDeadlinePassed     = "The registration deadline for this event has passed."
	msgAlreadyRegistered  = "You are already registered for this event."
	msgRegistered         = "Registration successful! Good luck!"
	msgPendingXPUnpaid    = "Please pay your pending XP before registering."
	msgRegistrationFailed = "An error occurred during registration. Please try again."
)

// Compile-time check to ensure RegistrationServiceImpl implements
// RegistrationService
var _ RegistrationService = (*RegistrationServiceImpl)(nil)

// RegistrationServiceImpl decides, per (user, event) pair, whether
// registration is allowed and performs the registration write. For XP-gated
// events it also handles the unlock step, which reserves the XP spend without
// registering.
type RegistrationServiceImpl struct {
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
	now       func() time.Time
}

// NewRegistrationService creates a new RegistrationServiceImpl
func NewRegistrationService(eventRepo repositories.EventRepository, userRepo repositories.UserRepository, now func() time.Time) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		now:       now,
	}
}

// RegisterForEvent runs the registration state machine.
//
// Free events: deadline check, then an idempotent registration (registering
// again from a second device reports success without a second entry).
//
// Gated events: the first call unlocks the event, reserving RequiredXP as
// pending spend; registration itself is refused until all pending XP is paid,
// including debt from other events.
func (s *RegistrationServiceImpl) RegisterForEvent(ctx context.Context, eventID, username string) models.Result {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return models.Failure(msgEventNotFound)
	}

	event, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Failure(msgEventNotFound)
		}
		slog.Error("failed to load event for registration", "eventId", eventID, "error", err)
		return models.Failure(msgRegistrationFailed)
	}

	user, err := s.userRepo.GetOrCreate(ctx, username)
	if err != nil {
		slog.Error("failed to resolve user for registration", "username", username, "error", err)
		return models.Failure(msgRegistrationFailed)
	}

	if !event.IsXPGated() {
		return s.register(ctx, event, username)
	}

	if !user.HasUnlocked(eventID) {
		return s.unlock(ctx, event, user)
	}

	if user.PendingXPSpend > 0 {
		return models.Failure(msgPendingXPUnpaid)
	}

	return s.register(ctx, event, username)
}

// register performs the deadline check and the atomic registrant append.
func (s *RegistrationServiceImpl) register(ctx context.Context, event *models.Event, username string) models.Result {
	if s.now().UnixMilli() > event.EndTime {
		return models.Failure(msgDeadlinePassed)
	}
	if event.IsRegistered(username) {
		return models.Ok(msgAlreadyRegistered)
	}

	registrant := models.Registrant{
		ID:       primitive.NewObjectID().Hex(),
		Username: username,
	}
	added, err := s.eventRepo.AddRegistrant(ctx, event.ID, registrant)
	if err != nil {
		slog.Error("failed to add registrant", "eventId", event.ID.Hex(), "username", username, "error", err)
		return models.Failure(msgRegistrationFailed)
	}
	if !added {
		// A concurrent registration from another device got there first.
		return models.Ok(msgAlreadyRegistered)
	}

	slog.Info("user registered for event", "eventId", event.ID.Hex(), "username", username)
	return models.Ok(msgRegistered)
}

// unlock reserves the event's XP price as pending spend and grants
// visibility. It does not register the user.
func (s *RegistrationServiceImpl) unlock(ctx context.Context, event *models.Event, user *models.User) models.Result {
	if user.XP < event.RequiredXP {
		return models.Failure(fmt.Sprintf("You need %d XP to unlock this event. You have %d XP.", event.RequiredXP, user.XP))
	}

	reserved, err := s.userRepo.ReserveUnlock(ctx, user.Username, event.ID.Hex(), event.RequiredXP)
	if err != nil {
		slog.Error("failed to reserve unlock", "eventId", event.ID.Hex(), "username", user.Username, "error", err)
		return models.Failure(msgRegistrationFailed)
	}
	if !reserved {
		// The balance was spent, or the event unlocked, concurrently.
		return models.Failure(fmt.Sprintf("You need %d XP to unlock this event.", event.RequiredXP))
	}

	slog.Info("event unlocked", "eventId", event.ID.Hex(), "username", user.Username, "reservedXp", event.RequiredXP)
	return models.Ok(fmt.Sprintf("Event unlocked! %d XP has been reserved from your balance.", event.RequiredXP))
}
