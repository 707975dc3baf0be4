// Package store defines the persistence interfaces for credential records.
// Drivers live under store/drivers.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/spendlog/spendlog/internal/auth/domain"
	"github.com/spendlog/spendlog/pkg/idx"
)

var (
	// ErrNotFound reports that no row matched the query. For conditional
	// updates it also covers "matched but already consumed".
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists reports a uniqueness violation, typically the email.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root persistence interface.
type Store interface {
	Users() Users

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations(ctx context.Context) error

	// Ping verifies the underlying database is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Users provides access to credential records. Mutations that must be
// race-safe (token consumption, version bumps) are single conditional
// statements so concurrent callers cannot both succeed.
type Users interface {
	// Create inserts a new user. Returns ErrAlreadyExists when the email
	// is taken, compared case-insensitively.
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id idx.ID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ConsumeVerificationToken marks the matching user verified and clears
	// the token in one statement. Returns ErrNotFound when no unconsumed
	// token matches, so exactly one of any concurrent callers wins.
	ConsumeVerificationToken(ctx context.Context, tokenFingerprint string) error

	// SetResetToken stores a reset token fingerprint and its expiry,
	// replacing any previous one.
	SetResetToken(ctx context.Context, id idx.ID, tokenFingerprint string, expiry time.Time) error

	// ResetPassword swaps the password hash, clears the reset token and
	// bumps the token version, all conditional on the fingerprint still
	// matching an unexpired token. Returns ErrNotFound otherwise.
	ResetPassword(ctx context.Context, tokenFingerprint, newPasswordHash string, now time.Time) error

	// IncrementTokenVersion atomically bumps the user's token version,
	// invalidating all outstanding refresh tokens.
	IncrementTokenVersion(ctx context.Context, id idx.ID) error
}
