// Package domain holds the core types shared by the store, service and HTTP
// layers.
package domain

import (
	"time"

	"github.com/spendlog/spendlog/pkg/idx"
)

// User is the credential record for one account. Email is stored in
// normalized form (trimmed, lowercased) and is unique. VerificationToken and
// ResetToken hold SHA-256 fingerprints of the opaque tokens mailed to the
// user, never the tokens themselves.
type User struct {
	ID           idx.ID
	Name         string
	Email        string
	PasswordHash string

	IsVerified        bool
	VerificationToken *string

	ResetToken       *string
	ResetTokenExpiry *time.Time

	// TokenVersion only ever increases. Refresh tokens carry the version
	// they were issued against and become invalid once it moves past them.
	TokenVersion int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the safe projection of a User returned by the HTTP layer.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the user's safe projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}

// Session is the result of a successful login or refresh.
type Session struct {
	User         PublicUser
	AccessToken  string
	RefreshToken string
}
