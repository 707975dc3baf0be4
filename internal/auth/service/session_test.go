package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/pkg/idx"
)

func TestLogin(t *testing.T) {
	accounts, sessions, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")

	session, err := sessions.Login(ctx, "ALICE@example.com ", "Abcd123!")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.NotEqual(t, session.AccessToken, session.RefreshToken)

	claims, err := sessions.Tokens.VerifyAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	accounts, sessions, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")

	// Wrong password and unknown email yield the same error.
	_, err := sessions.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = sessions.Login(ctx, "nobody@example.com", "Abcd123!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnverified(t *testing.T) {
	accounts, sessions, _ := newTestServices(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, "Alice", "alice@example.com", "Abcd123!")
	require.NoError(t, err)

	_, err = sessions.Login(ctx, "alice@example.com", "Abcd123!")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestRefresh(t *testing.T) {
	accounts, sessions, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")
	session, err := sessions.Login(ctx, "alice@example.com", "Abcd123!")
	require.NoError(t, err)

	access, err := sessions.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)

	claims, err := sessions.Tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.Subject)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	accounts, sessions, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")
	session, err := sessions.Login(ctx, "alice@example.com", "Abcd123!")
	require.NoError(t, err)

	_, err = sessions.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// An access token must not pass as a refresh token.
	_, err = sessions.Refresh(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	accounts, sessions, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")
	session, err := sessions.Login(ctx, "alice@example.com", "Abcd123!")
	require.NoError(t, err)

	userID := idx.MustParse(session.User.ID)
	require.NoError(t, sessions.Logout(ctx, userID))

	_, err = sessions.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrRevoked)

	// A new login issues a refresh token bound to the bumped version.
	fresh, err := sessions.Login(ctx, "alice@example.com", "Abcd123!")
	require.NoError(t, err)
	_, err = sessions.Refresh(ctx, fresh.RefreshToken)
	assert.NoError(t, err)
}

func TestPasswordResetRevokesRefreshTokens(t *testing.T) {
	accounts, sessions, mailer := newTestServices(t)
	ctx := context.Background()

	registerVerified(t, accounts, mailer, "alice@example.com", "Abcd123!")
	session, err := sessions.Login(ctx, "alice@example.com", "Abcd123!")
	require.NoError(t, err)

	_, err = accounts.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	token := tokenFromEmail(t, mailer.last(t).HTML)
	require.NoError(t, accounts.ResetPassword(ctx, token, "NewPass1!"))

	_, err = sessions.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestLogoutUnknownUser(t *testing.T) {
	_, sessions, _ := newTestServices(t)

	// Revoking a vanished account is a no-op, not an error.
	assert.NoError(t, sessions.Logout(context.Background(), idx.New()))
}
