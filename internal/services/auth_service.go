package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitsim/lucky-draw-backend/internal/config"
	"github.com/bitsim/lucky-draw-backend/internal/models"
	"github.com/bitsim/lucky-draw-backend/internal/repositories"
	"github.com/bitsim/lucky-draw-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidCredentials is returned for a failed admin login. The same error
// covers unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles admin authentication. Players do not authenticate;
// only the admin surface is guarded.
type AuthServiceImpl struct {
	adminRepo repositories.AdminUserRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminRepo repositories.AdminUserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// Login verifies admin credentials and returns a signed JWT.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Email, s.cfg)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// EnsureSeedAdmin creates the configured admin account on first startup so a
// fresh deployment is usable without manual database edits.
func (s *AuthServiceImpl) EnsureSeedAdmin(ctx context.Context) error {
	if s.cfg.Admin.Email == "" || s.cfg.Admin.Password == "" {
		slog.Warn("no seed admin configured, admin API will be unreachable until one is created")
		return nil
	}

	_, err := s.adminRepo.FindByEmail(ctx, s.cfg.Admin.Email)
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to check for seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin := &models.AdminUser{
		Email:        s.cfg.Admin.Email,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}
	slog.Info("seed admin created", "email", admin.Email)
	return nil
}
