package authutils

import (
	"context"
	"testing"
	"time"

	"monster-clicker/shared/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	_, err := NewJWTVerifier("", zap.NewNop())
	assert.Error(t, err)
}

func TestVerifyToken(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)
	userID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		token, err := SignToken(testSecret, userID, []string{models.RoleUser}, time.Hour)
		require.NoError(t, err)

		claims, err := verifier.VerifyToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, []string{models.RoleUser}, claims.Roles)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := SignToken(testSecret, userID, nil, -time.Minute)
		require.NoError(t, err)
		_, err = verifier.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, models.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignToken("other-secret", userID, nil, time.Hour)
		require.NoError(t, err)
		_, err = verifier.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := verifier.VerifyToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, models.ErrTokenMalformed)
	})

	t.Run("missing user id", func(t *testing.T) {
		token, err := SignToken(testSecret, uuid.Nil, nil, time.Hour)
		require.NoError(t, err)
		_, err = verifier.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		claims := &models.Claims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})
}
