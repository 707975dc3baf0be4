package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	accounts, _, mailer := newTestServices(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "  Alice  ", "Alice@Example.COM", "Abcd123!")
	require.NoError(t, err)

	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email, "email must be normalized")
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "Abcd123!", user.PasswordHash)

	email := mailer.last(t)
	assert.Equal(t, "alice@example.com", email.To)
	token := tokenFromEmail(t, email.HTML)
	require.NotNil(t, user.VerificationToken)
	assert.NotContains(t, *user.VerificationToken, token,
		"store must hold the fingerprint, not the raw token")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, "Alice", "alice@example.com", "Abcd123!")
	require.NoError(t, err)

	_, err = accounts.Register(ctx, "Mallory", "ALICE@example.com", "Wxyz789!")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSurvivesEmailFailure(t *testing.T) {
	accounts, _, mailer := newTestServices(t)
	mailer.fail = true

	user, err := accounts.Register(context.Background(), "Alice", "alice@example.com", "Abcd123!")
	require.NoError(t, err, "registration must succeed even when delivery fails")
	assert.False(t, user.IsVerified)
}

func TestVerifyEmail(t *testing.T) {
	accounts, _, mailer := newTestServices(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, "Alice", "alice@example.com", "Abcd123!")
	require.NoError(t, err)

	token := tokenFromEmail(t, mailer.last(t).HTML)
	require.NoError(t, accounts.VerifyEmail(ctx, token))

	// Single-use: replaying the token fails.
	assert.ErrorIs(t, accounts.VerifyEmail(ctx, token), ErrInvalidToken)

	assert.ErrorIs(t, accounts.VerifyEmail(ctx, "no-such-token"), ErrInvalidToken)
}

func TestRequestPasswordReset(t *testing.T) {
	accounts, _, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")

	sent, err := accounts.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, sent)

	email := mailer.last(t)
	assert.Equal(t, "alice@example.com", email.To)
	assert.Contains(t, email.HTML, "reset-password?token=")
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	accounts, _, _ := newTestServices(t)

	sent, err := accounts.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err, "unknown email must not be an error")
	assert.False(t, sent)
}

func TestRequestPasswordResetDeliveryFailure(t *testing.T) {
	accounts, _, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")
	mailer.fail = true

	_, err := accounts.RequestPasswordReset(ctx, "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailDelivery)
}

func TestResetPassword(t *testing.T) {
	accounts, sessions, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")

	_, err := accounts.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	token := tokenFromEmail(t, mailer.last(t).HTML)

	require.NoError(t, accounts.ResetPassword(ctx, token, "NewPass1!"))

	// Old password is dead, new one works.
	_, err = sessions.Login(ctx, "alice@example.com", "Abcd123!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = sessions.Login(ctx, "alice@example.com", "NewPass1!")
	assert.NoError(t, err)

	// Token is single-use.
	assert.ErrorIs(t, accounts.ResetPassword(ctx, token, "Another1!"), ErrInvalidToken)
}

func TestResetPasswordBadToken(t *testing.T) {
	accounts, _, _ := newTestServices(t)

	err := accounts.ResetPassword(context.Background(), "bogus", "NewPass1!")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
