// Package jwtx issues and verifies the service's HS256 access and refresh
// tokens. Both token kinds share one process-wide signing secret; refresh
// tokens additionally carry the user's token version so the session layer
// can revoke them in bulk.
package jwtx

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Access tokens are deliberately short-lived since
// they carry no revocation check; the refresh token is the only revocable
// credential.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// token_use claim values. Keeps an access token from being replayed as a
// refresh token and vice versa.
const (
	useAccess  = "access"
	useRefresh = "refresh"
)

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrNotYetValid      = errors.New("jwtx: token not yet valid")
	ErrIssuer           = errors.New("jwtx: issuer mismatch")
	ErrAudience         = errors.New("jwtx: audience mismatch")
	ErrTokenUse         = errors.New("jwtx: wrong token use")
)

// AccessClaims are the claims embedded in an access token.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email    string `json:"email"`
	TokenUse string `json:"token_use"`
}

// RefreshClaims are the claims embedded in a refresh token. TokenVersion is
// compared against the stored credential on every refresh; a mismatch means
// the token was issued before a logout or password reset.
type RefreshClaims struct {
	jwt.RegisteredClaims

	TokenVersion int64  `json:"tv"`
	TokenUse     string `json:"token_use"`
}

// Issuer signs and verifies tokens with a single HMAC-SHA256 secret.
type Issuer struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds an Issuer. The secret must be non-empty; callers are
// responsible for refusing to start in production without a configured one.
func NewIssuer(secret []byte, issuer, audience string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: signing secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("jwtx: token TTLs must be positive")
	}
	return &Issuer{
		secret:     secret,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccessToken signs a short-lived access token for the subject.
func (i *Issuer) IssueAccessToken(subject, email string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: i.registered(subject, now, i.accessTTL),
		Email:            email,
		TokenUse:         useAccess,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived refresh token bound to the user's
// current token version.
func (i *Issuer) IssueRefreshToken(subject string, tokenVersion int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: i.registered(subject, now, i.refreshTTL),
		TokenVersion:     tokenVersion,
		TokenUse:         useRefresh,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken checks signature, expiry, issuer, audience and token use.
func (i *Issuer) VerifyAccessToken(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := i.verify(token, &claims); err != nil {
		return AccessClaims{}, err
	}
	if claims.TokenUse != useAccess {
		return AccessClaims{}, ErrTokenUse
	}
	if err := i.validateRegistered(&claims.RegisteredClaims); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// VerifyRefreshToken checks signature, expiry, issuer, audience and token use.
func (i *Issuer) VerifyRefreshToken(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := i.verify(token, &claims); err != nil {
		return RefreshClaims{}, err
	}
	if claims.TokenUse != useRefresh {
		return RefreshClaims{}, ErrTokenUse
	}
	if err := i.validateRegistered(&claims.RegisteredClaims); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func (i *Issuer) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{i.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (i *Issuer) verify(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return mapParseError(err)
	}
	if !parsed.Valid {
		return ErrMalformed
	}
	return nil
}

func (i *Issuer) validateRegistered(c *jwt.RegisteredClaims) error {
	if i.issuer != "" && c.Issuer != i.issuer {
		return ErrIssuer
	}
	if i.audience != "" && !slices.Contains(c.Audience, i.audience) {
		return ErrAudience
	}
	return nil
}

// mapParseError translates golang-jwt failures into this package's error
// kinds so callers can distinguish expired from forged from garbage.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
