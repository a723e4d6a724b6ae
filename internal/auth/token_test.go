package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-portal/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "user-1", Email: "ana@example.com", Role: domain.RoleAdmin, Status: true}
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	token, expiresAt, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.True(t, claims.Status)
}

func TestIssuedTokenDecodesWithoutVerification(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	claims, ok := DecodeClaims(token)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.ID)
	assert.True(t, claims.Active())
	assert.False(t, IsExpired(token, time.Now()))
}

func TestParseTokenRejectsExpiredAndForged(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	issued := time.Now().Add(-2 * time.Minute)
	tm.now = func() time.Time { return issued }
	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(token)
	assert.Error(t, err)

	other := NewTokenManager("other", 30)
	fresh, _, err := other.GenerateToken(testUser())
	require.NoError(t, err)
	_, err = tm.ParseToken(fresh)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrInvalidCredentials)
}
