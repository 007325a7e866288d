package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airboeing1212/expense-tracker-api/internal/core"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenExpiry(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	issued := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(7)
	require.NoError(t, err)

	// Still valid just before the TTL elapses.
	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenTampered(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(1)
	require.NoError(t, err)

	data, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	// Flip a bit in the claims payload. The signature no longer matches.
	data[0] ^= 0x01
	_, err = svc.Verify(base64.RawURLEncoding.EncodeToString(data))
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, token := range []string{
		"",
		"not-a-token",
		"!!!not base64url!!!",
		base64.RawURLEncoding.EncodeToString([]byte("too short")),
	} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid, "token %q", token)
	}
}
