package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	tok, err := svc.IssueAccessToken("42", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := svc.VerifyAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	tok, err := svc.IssueRefreshToken("7", "someone@example.com")
	require.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "someone@example.com", claims.Email)
}

func TestTokensNotInterchangeable(t *testing.T) {
	svc := newTestService()

	accessTok, err := svc.IssueAccessToken("42", "test@example.com")
	require.NoError(t, err)
	refreshTok, err := svc.IssueRefreshToken("42", "test@example.com")
	require.NoError(t, err)

	// Access token against the refresh secret and vice versa
	_, err = svc.VerifyRefreshToken(accessTok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.VerifyAccessToken(refreshTok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenFails(t *testing.T) {
	svc := NewService("access-secret", "refresh-secret", -1*time.Second, -1*time.Second)

	tok, err := svc.IssueAccessToken("42", "test@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDifferentSecretRejected(t *testing.T) {
	issuing := NewService("one-secret", "refresh-secret", time.Minute, time.Minute)
	verifying := NewService("another-secret", "refresh-secret", time.Minute, time.Minute)

	tok, err := issuing.IssueAccessToken("42", "test@example.com")
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestService()

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.VerifyAccessToken(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}
