package services

import (
	"context"
	"fmt"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

const (
	msgUserNotFound     = "User not found."
	msgNothingToPay     = "You have no pending XP to pay."
	msgInsufficientXP   = "Your XP balance does not cover your pending XP."
	msgSettlementFailed = "An error occurred while settling your XP. Please try again."
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl is the user directory: it resolves usernames to stable
// records and settles pending XP debt.
type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserServiceImpl
func NewUserService(userRepo repositories.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

// GetOrCreate resolves a username, creating the record on first sight.
func (s *UserServiceImpl) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetOrCreate(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %q: %w", username, err)
	}
	return user, nil
}

// GetByUsername looks up an existing user.
func (s *UserServiceImpl) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return user, nil
}

// PayPendingXP pays the user's pending XP debt down to zero in full. Partial
// settlement is not supported: if the balance cannot cover the debt, nothing
// changes.
func (s *UserServiceImpl) PayPendingXP(ctx context.Context, username string) models.Result {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Failure(msgUserNotFound)
		}
		slog.Error("failed to load user for settlement", "username", username, "error", err)
		return models.Failure(msgSettlementFailed)
	}

	if user.PendingXPSpend == 0 {
		return models.Failure(msgNothingToPay)
	}
	if user.XP < user.PendingXPSpend {
		return models.Failure(msgInsufficientXP)
	}

	settled, err := s.userRepo.SettlePendingXP(ctx, username)
	if err != nil {
		slog.Error("failed to settle pending XP", "username", username, "error", err)
		return models.Failure(msgSettlementFailed)
	}
	if !settled {
		// The balance or debt changed between the read and the guarded
		// write; reclassify from current state.
		current, err := s.userRepo.FindByUsername(ctx, username)
		if err != nil {
			slog.Error("failed to reload user after settlement conflict", "username", username, "error", err)
			return models.Failure(msgSettlementFailed)
		}
		if current.PendingXPSpend == 0 {
			return models.Failure(msgNothingToPay)
		}
		return models.Failure(msgInsufficientXP)
	}

	slog.Info("pending XP settled", "username", username, "paidXp", user.PendingXPSpend)
	return models.Ok(fmt.Sprintf("Paid %d XP. Your pending balance is settled.", user.PendingXPSpend))
}
