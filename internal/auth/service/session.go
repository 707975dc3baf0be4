package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spendlog/spendlog/internal/auth/domain"
	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/pkg/cryptox"
	"github.com/spendlog/spendlog/pkg/idx"
	"github.com/spendlog/spendlog/pkg/jwtx"
	"github.com/spendlog/spendlog/pkg/slogx"
)

// SessionService handles login, refresh and logout.
type SessionService struct {
	Store  store.Store
	Tokens *jwtx.Issuer

	// FailureDelay is added to every invalid-credentials outcome so the
	// unknown-email and wrong-password paths take the same time. Tests
	// set it to zero.
	FailureDelay time.Duration
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// dummyPasswordHash is compared against on the unknown-email path so a
// missing account costs the same as a present one.
func dummyPasswordHash() string {
	dummyHashOnce.Do(func() {
		h, err := cryptox.HashPassword("login-timing-equalizer")
		if err != nil {
			panic(fmt.Sprintf("service: generating dummy hash: %v", err))
		}
		dummyHash = h
	})
	return dummyHash
}

// Login verifies the credentials and issues a fresh access/refresh pair.
// Unknown email and wrong password are indistinguishable to the caller, in
// both the returned error and response timing.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_, _ = cryptox.VerifyPassword(password, dummyPasswordHash())
		return nil, s.failCredentials(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		slogx.FromContext(ctx).Error("stored password hash is unreadable",
			"user_id", user.ID.String(),
			"error", err,
		)
		return nil, s.failCredentials(ctx)
	}
	if !ok {
		return nil, s.failCredentials(ctx)
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	access, err := s.Tokens.IssueAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := s.Tokens.IssueRefreshToken(user.ID.String(), user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	return &domain.Session{
		User:         user.Public(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The stored
// token version must still match the one baked into the refresh token;
// refresh tokens themselves are not rotated.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	id, err := idx.Parse(claims.Subject)
	if err != nil {
		return "", ErrInvalidToken
	}

	user, err := s.Store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", ErrRevoked
	}

	access, err := s.Tokens.IssueAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return "", fmt.Errorf("issuing access token: %w", err)
	}
	return access, nil
}

// Logout bumps the user's token version, invalidating every refresh token
// issued so far. Access tokens stay valid until they expire.
func (s *SessionService) Logout(ctx context.Context, userID idx.ID) error {
	err := s.Store.Users().IncrementTokenVersion(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		// Account deleted underneath a live session; nothing to revoke.
		return nil
	}
	if err != nil {
		return fmt.Errorf("bumping token version: %w", err)
	}
	return nil
}

func (s *SessionService) failCredentials(ctx context.Context) error {
	if s.FailureDelay > 0 {
		select {
		case <-time.After(s.FailureDelay):
		case <-ctx.Done():
		}
	}
	return ErrInvalidCredentials
}
