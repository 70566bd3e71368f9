package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")

	signed, err := issuer.IssueAccess("12345", time.Minute)
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, "12345", claims.Subject)
	assert.Equal(t, PurposeAccess, claims.Purpose)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	issuer := NewIssuer("test-secret")

	refresh, err := issuer.IssueRefresh("12345", time.Hour)
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := issuer.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "12345", claims.Subject)
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	issuer := NewIssuer("test-secret")

	access, err := issuer.IssueAccess("12345", time.Minute)
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewIssuer("test-secret")

	signed, err := issuer.IssueAccess("12345", -time.Minute)
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongKeyRejected(t *testing.T) {
	signed, err := NewIssuer("key-one").IssueAccess("12345", time.Minute)
	require.NoError(t, err)

	_, err = NewIssuer("key-two").VerifyAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestServiceTokenScopes(t *testing.T) {
	issuer := NewIssuer("test-secret")

	signed, err := issuer.IssueService("my-trusted-service", []string{"read:service_data", "write:service_log"}, time.Minute)
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, "my-trusted-service", claims.Subject)
	assert.True(t, claims.HasScope("read:service_data"))
	assert.True(t, claims.HasScope("write:service_log"))
	assert.False(t, claims.HasScope("admin"))
}

func TestGarbageTokenRejected(t *testing.T) {
	issuer := NewIssuer("test-secret")

	_, err := issuer.VerifyAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
