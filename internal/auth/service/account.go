// Package service implements the account and session flows on top of the
// store, mailer and token issuer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendlog/spendlog/internal/auth/domain"
	"github.com/spendlog/spendlog/internal/auth/mail"
	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/pkg/cryptox"
	"github.com/spendlog/spendlog/pkg/idx"
	"github.com/spendlog/spendlog/pkg/slogx"
)

// AccountService handles registration, email verification and the password
// reset lifecycle.
type AccountService struct {
	Store  store.Store
	Mailer mail.Sender

	// BaseURL is the public origin used in emailed links.
	BaseURL string

	// ResetTokenTTL bounds how long a password reset link stays valid.
	ResetTokenTTL time.Duration

	// EmailTimeout bounds each delivery attempt.
	EmailTimeout time.Duration
}

// Register creates an unverified account and emails the verification link.
// Delivery is best-effort; a failed email is logged but does not fail the
// registration, since the link can be re-requested later.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	token := uuid.NewString()
	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	user := &domain.User{
		ID:                idx.New(),
		Name:              strings.TrimSpace(name),
		Email:             email,
		PasswordHash:      hash,
		VerificationToken: &fingerprint,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	subject, html := mail.VerificationEmail(s.BaseURL, token)
	if err := s.sendEmail(ctx, email, subject, html); err != nil {
		slogx.FromContext(ctx).Error("verification email failed",
			"user_id", user.ID.String(),
			"error", err,
		)
	}

	return user, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
// Tokens are single-use; a replay or unknown token yields ErrInvalidToken.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	fingerprint := cryptox.FingerprintToken(token)

	err := s.Store.Users().ConsumeVerificationToken(ctx, fingerprint)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("consuming verification token: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a reset token and emails the reset link. An
// unknown email returns (false, nil) so the HTTP layer can respond with the
// same generic message either way.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up user: %w", err)
	}

	token := uuid.NewString()
	fingerprint := cryptox.FingerprintToken(token)
	expiry := time.Now().UTC().Add(s.ResetTokenTTL)

	if err := s.Store.Users().SetResetToken(ctx, user.ID, fingerprint, expiry); err != nil {
		return false, fmt.Errorf("storing reset token: %w", err)
	}

	subject, html := mail.PasswordResetEmail(s.BaseURL, token)
	if err := s.sendEmail(ctx, email, subject, html); err != nil {
		return false, fmt.Errorf("%w: %s", ErrEmailDelivery, err)
	}

	return true, nil
}

// ResetPassword consumes a reset token and installs the new password. The
// consumption, clear and token-version bump happen in one conditional store
// update so concurrent attempts have a single winner and every outstanding
// refresh token dies with the old password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	fingerprint := cryptox.FingerprintToken(token)

	err = s.Store.Users().ResetPassword(ctx, fingerprint, hash, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	return nil
}

func (s *AccountService) sendEmail(ctx context.Context, to, subject, html string) error {
	timeout := s.EmailTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.Mailer.SendEmail(ctx, to, subject, html)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// lookups and uniqueness behave case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
