package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, secret string) *JWTManager {
	t.Setenv("JWT_SECRET", secret)
	jm, err := NewJWTManager()
	require.NoError(t, err)
	return jm
}

func TestNewJWTManager(t *testing.T) {
	t.Run("requires_secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := NewJWTManager()
		assert.Error(t, err)
	})

	t.Run("creates_manager", func(t *testing.T) {
		jm := newTestManager(t, "test-secret")
		assert.Equal(t, "HS256", jm.algorithm)
		assert.Equal(t, "default", jm.keyID)
	})
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	jm := newTestManager(t, "test-secret")
	ctx := context.Background()

	token, err := jm.GenerateToken(ctx, "user-123", "user@example.com", []string{"user"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jm.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Username)
	assert.Equal(t, []string{"user"}, claims.Roles)
	assert.Equal(t, "quotebot-gateway", claims.Issuer)
}

func TestJWTManager_ValidateToken_Errors(t *testing.T) {
	jm := newTestManager(t, "test-secret")
	ctx := context.Background()

	t.Run("expired_token", func(t *testing.T) {
		token, err := jm.GenerateToken(ctx, "user-123", "user@example.com", []string{"user"}, -time.Minute)
		require.NoError(t, err)

		_, err = jm.ValidateToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token, err := jm.GenerateToken(ctx, "user-123", "user@example.com", []string{"user"}, time.Hour)
		require.NoError(t, err)

		other := newTestManager(t, "different-secret")
		_, err = other.ValidateToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := jm.ValidateToken(ctx, "not.a.token")
		assert.Error(t, err)
	})
}

func TestJWTManager_RefreshToken(t *testing.T) {
	jm := newTestManager(t, "test-secret")
	ctx := context.Background()

	token, err := jm.GenerateToken(ctx, "user-123", "user@example.com", []string{"user"}, time.Hour)
	require.NoError(t, err)

	refreshed, err := jm.RefreshToken(ctx, token, 2*time.Hour)
	require.NoError(t, err)

	claims, err := jm.ValidateToken(ctx, refreshed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, []string{"user"}, claims.Roles)
}
