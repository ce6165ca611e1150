package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACVerifierRoundTrip(t *testing.T) {
	verifier := NewHMACVerifier("test-secret")

	token, err := verifier.Issue(Identity{Subject: "user-1", Email: "a@example.com", Name: "Asha"}, time.Minute)
	require.NoError(t, err)

	identity, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "user-1", Email: "a@example.com", Name: "Asha"}, identity)
}

func TestHMACVerifierRejectsWrongSecret(t *testing.T) {
	token, err := NewHMACVerifier("other").Issue(Identity{Subject: "user-1"}, time.Minute)
	require.NoError(t, err)

	_, err = NewHMACVerifier("test-secret").Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHMACVerifierRejectsExpired(t *testing.T) {
	verifier := NewHMACVerifier("test-secret")
	token, err := verifier.Issue(Identity{Subject: "user-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestHMACVerifierFallsBackToUserIDClaim(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "legacy-uid",
		"email":   "b@example.com",
		"exp":     time.Now().Add(time.Minute).Unix(),
		"role":    "ignored",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	identity, err := NewHMACVerifier("test-secret").Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "legacy-uid", identity.Subject)
	assert.Equal(t, "b@example.com", identity.DisplayName())
}

func TestHMACVerifierRequiresSubject(t *testing.T) {
	claims := jwt.MapClaims{"email": "c@example.com", "exp": time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewHMACVerifier("test-secret").Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHMACVerifierRejectsGarbage(t *testing.T) {
	_, err := NewHMACVerifier("test-secret").Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
