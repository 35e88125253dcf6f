package utils

import (
	"testing"

	"github.com/bitsim/lucky-draw-backend/internal/config"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpiresIn = 3600
	return cfg
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := testConfig("test-secret")

	token, err := GenerateJWT("admin-1", "admin@example.com", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, cfg)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims["admin_id"])
	require.Equal(t, "admin@example.com", claims["email"])
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("admin-1", "admin@example.com", testConfig("secret-a"))
	require.NoError(t, err)

	_, err = ValidateJWT(token, testConfig("secret-b"))
	require.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	cfg := testConfig("test-secret")
	cfg.JWT.ExpiresIn = -60

	token, err := GenerateJWT("admin-1", "admin@example.com", cfg)
	require.NoError(t, err)

	_, err = ValidateJWT(token, cfg)
	require.Error(t, err)
}

func TestValidateJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token", testConfig("test-secret"))
	require.Error(t, err)
}
