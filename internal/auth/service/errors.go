package service

import "errors"

var (
	// ErrEmailTaken reports a registration attempt with an email that
	// already has an account.
	ErrEmailTaken = errors.New("service: email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrEmailNotVerified reports a login or request by an account that
	// has not completed email verification.
	ErrEmailNotVerified = errors.New("service: email not verified")

	// ErrInvalidToken reports a verification, reset or refresh token that
	// is unknown, malformed, expired or already consumed.
	ErrInvalidToken = errors.New("service: invalid or expired token")

	// ErrRevoked reports a structurally valid refresh token whose version
	// no longer matches the account, i.e. it was issued before a logout
	// or password reset.
	ErrRevoked = errors.New("service: token revoked")

	// ErrEmailDelivery reports a failure to hand the message to the mail
	// provider.
	ErrEmailDelivery = errors.New("service: email delivery failed")
)
