package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/config"
)

func testAuthService(ttl time.Duration) *AuthService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = ttl
	return NewAuthService(cfg, quietLogger(), nil)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	auth := testAuthService(time.Hour)
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, "key-123", "premium")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "key-123", claims.APIKey)
	assert.Equal(t, "premium", claims.UserTier)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	auth := testAuthService(-time.Minute)

	token, err := auth.GenerateToken(uuid.New(), "key-123", "free")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_RejectsForeignSignature(t *testing.T) {
	issuer := testAuthService(time.Hour)
	token, err := issuer.GenerateToken(uuid.New(), "key-123", "free")
	require.NoError(t, err)

	verifier := testAuthService(time.Hour)
	verifier.jwtSecret = []byte("different-secret")

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_RevokeWithoutRedisIsNoop(t *testing.T) {
	auth := testAuthService(time.Hour)
	assert.NoError(t, auth.RevokeToken(uuid.New()))
}
