package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name   string
		userID string
		email  string
		plan   string
	}{
		{
			name:   "premium subscriber",
			userID: "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			email:  "premium@example.com",
			plan:   "premium",
		},
		{
			name:   "user without subscription",
			userID: "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
			email:  "free@example.com",
			plan:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email, tt.plan)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID())
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.plan, claims.Plan)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 2*time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, 2*time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)

	validToken, err := maker.GenerateToken("uid", "user@example.com", "")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: createToken(t, secretKey, -time.Hour)},
		{name: "wrong secret key", token: createToken(t, "wrong_secret_key", 15*time.Minute)},
		{name: "tampered token", token: validToken + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_ExpiredTokenError(t *testing.T) {
	maker := NewJWTMaker("test_secret_key", time.Minute)

	_, err := maker.ParseToken(createToken(t, "test_secret_key", -time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func createToken(t *testing.T, secretKey string, ttl time.Duration) string {
	t.Helper()
	token, err := NewJWTMaker(secretKey, ttl).GenerateToken("uid", "user@example.com", "start")
	require.NoError(t, err)
	return token
}
