package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *TokenProvider {
	return NewTokenProvider("test-secret", 30*time.Minute, 14*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	p := newTestProvider()

	token, err := p.GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := p.ParseAccessUserID(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	p := newTestProvider()

	token, err := p.GenerateRefreshToken(7)
	require.NoError(t, err)

	userID, err := p.ParseRefreshUserID(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestTokenKindIsEnforced(t *testing.T) {
	p := newTestProvider()

	access, err := p.GenerateAccessToken(1)
	require.NoError(t, err)
	refresh, err := p.GenerateRefreshToken(1)
	require.NoError(t, err)

	_, err = p.ParseRefreshUserID(access)
	assert.Error(t, err)
	_, err = p.ParseAccessUserID(refresh)
	assert.Error(t, err)
}

func TestWrongSecretIsRejected(t *testing.T) {
	p := newTestProvider()
	other := NewTokenProvider("other-secret", 30*time.Minute, 14*24*time.Hour)

	token, err := p.GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = other.ParseAccessUserID(token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	p := NewTokenProvider("test-secret", -time.Minute, 14*24*time.Hour)

	token, err := p.GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = p.ParseAccessUserID(token)
	assert.Error(t, err)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	p := newTestProvider()

	_, err := p.ParseAccessUserID("not-a-token")
	assert.Error(t, err)
}
