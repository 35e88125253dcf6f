package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NotificationServiceImpl implements
// NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl maintains the push-token registry. Actual push
// delivery happens outside this service; events flagged with
// sendNotification are picked up by the delivery worker reading this
// registry.
type NotificationServiceImpl struct {
	tokenRepo repositories.DeviceTokenRepository
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(tokenRepo repositories.DeviceTokenRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		tokenRepo: tokenRepo,
	}
}

// SaveToken stores or refreshes the device token for a username.
func (s *NotificationServiceImpl) SaveToken(ctx context.Context, username, token string) error {
	if username == "" || token == "" {
		return errors.New("username and token are required")
	}
	if err := s.tokenRepo.Upsert(ctx, username, token); err != nil {
		slog.Error("failed to save device token", "username", username, "error", err)
		return fmt.Errorf("failed to save device token: %w", err)
	}
	return nil
}

// TokensForUsernames returns the registered tokens for the given usernames.
func (s *NotificationServiceImpl) TokensForUsernames(ctx context.Context, usernames []string) ([]*models.DeviceToken, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	tokens, err := s.tokenRepo.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to load device tokens: %w", err)
	}
	return tokens, nil
}
