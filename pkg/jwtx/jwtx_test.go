package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "expense-manager-api"
	testAudience = "expense-manager-app"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()

	iss, err := NewIssuer([]byte("test-secret"), testIssuer, testAudience,
		DefaultAccessTokenTTL, DefaultRefreshTokenTTL)
	require.NoError(t, err)
	return iss
}

func TestNewIssuerRejectsEmptySecret(t *testing.T) {
	_, err := NewIssuer(nil, testIssuer, testAudience, time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	iss := newTestIssuer(t)

	token, err := iss.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)

	claims, err := iss.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, testAudience)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	iss := newTestIssuer(t)

	token, err := iss.IssueRefreshToken("user-1", 4)
	require.NoError(t, err)

	claims, err := iss.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, int64(4), claims.TokenVersion)
}

func TestTokenUseConfusionRejected(t *testing.T) {
	iss := newTestIssuer(t)

	access, err := iss.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)
	refresh, err := iss.IssueRefreshToken("user-1", 0)
	require.NoError(t, err)

	_, err = iss.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenUse)

	_, err = iss.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenUse)
}

func TestVerifyWrongSecret(t *testing.T) {
	iss := newTestIssuer(t)
	other, err := NewIssuer([]byte("other-secret"), testIssuer, testAudience,
		time.Hour, time.Hour)
	require.NoError(t, err)

	token, err := iss.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyExpired(t *testing.T) {
	iss := newTestIssuer(t)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Email:    "alice@example.com",
		TokenUse: useAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = iss.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyMalformed(t *testing.T) {
	iss := newTestIssuer(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := iss.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrMalformed, "token: %q", token)
	}
}

func TestVerifyIssuerMismatch(t *testing.T) {
	foreign, err := NewIssuer([]byte("test-secret"), "someone-else", testAudience,
		time.Hour, time.Hour)
	require.NoError(t, err)

	token, err := foreign.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)

	iss := newTestIssuer(t)
	_, err = iss.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyAudienceMismatch(t *testing.T) {
	foreign, err := NewIssuer([]byte("test-secret"), testIssuer, "another-app",
		time.Hour, time.Hour)
	require.NoError(t, err)

	token, err := foreign.IssueAccessToken("user-1", "alice@example.com")
	require.NoError(t, err)

	iss := newTestIssuer(t)
	_, err = iss.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrAudience)
}

func TestVerifyRejectsUnsignedAlg(t *testing.T) {
	iss := newTestIssuer(t)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenUse: useAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = iss.VerifyAccessToken(token)
	assert.Error(t, err)
}
