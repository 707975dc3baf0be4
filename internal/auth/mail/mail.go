// Package mail delivers account emails. The concrete transport is chosen at
// startup from configuration; the rest of the service only sees the Sender
// capability.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Sender delivers one HTML email. Implementations must respect ctx deadlines
// since callers bound delivery time.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// Config selects and configures the concrete sender.
type Config struct {
	// Provider is one of "log", "api" or "smtp".
	Provider string

	FromName    string
	FromAddress string

	// API provider settings.
	APIURL string
	APIKey string

	// SMTP provider settings.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// NewSender builds the sender named by cfg.Provider.
func NewSender(cfg Config, logger *slog.Logger) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "log":
		return NewLogSender(logger), nil
	case "api":
		return NewAPISender(cfg)
	case "smtp":
		return NewSMTPSender(cfg)
	default:
		return nil, fmt.Errorf("mail: unknown provider %q", cfg.Provider)
	}
}

// VerificationEmail renders the account verification message. The link embeds
// the raw opaque token; only its fingerprint is stored server-side.
func VerificationEmail(baseURL, token string) (subject, html string) {
	link := fmt.Sprintf("%s/verify/%s", strings.TrimRight(baseURL, "/"), token)
	subject = "Verify your email address"
	html = fmt.Sprintf(`<p>Welcome! Please verify your email address to activate your account.</p>
<p><a href="%s">Verify my email</a></p>
<p>If the button does not work, copy this link into your browser:<br>%s</p>`, link, link)
	return subject, html
}

// PasswordResetEmail renders the password reset message. The link expires
// with the reset token, normally one hour.
func PasswordResetEmail(baseURL, token string) (subject, html string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(baseURL, "/"), token)
	subject = "Reset your password"
	html = fmt.Sprintf(`<p>We received a request to reset your password. This link expires in one hour.</p>
<p><a href="%s">Reset my password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>`, link)
	return subject, html
}
