package service

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/internal/auth/store/drivers/sqlite"
	"github.com/spendlog/spendlog/pkg/jwtx"
)

type sentEmail struct {
	To      string
	Subject string
	HTML    string
}

// fakeMailer captures outgoing emails and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

func (m *fakeMailer) SendEmail(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("provider unavailable")
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *fakeMailer) last(t *testing.T) sentEmail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "expected at least one email")
	return m.sent[len(m.sent)-1]
}

var linkTokenPattern = regexp.MustCompile(`(?:/verify/|token=)([0-9a-f-]{36})`)

// tokenFromEmail extracts the opaque uuid token from an emailed link.
func tokenFromEmail(t *testing.T, html string) string {
	t.Helper()
	matches := linkTokenPattern.FindStringSubmatch(html)
	require.Len(t, matches, 2, "email must contain a tokenized link")
	return matches[1]
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "auth.db") +
		"?_busy_timeout=5000&_journal_mode=WAL"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations(context.Background()))
	return s
}

func newTestIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()

	issuer, err := jwtx.NewIssuer([]byte("test-secret"),
		"expense-manager-api", "expense-manager-app",
		time.Hour, 7*24*time.Hour)
	require.NoError(t, err)
	return issuer
}

func newTestServices(t *testing.T) (*AccountService, *SessionService, *fakeMailer) {
	t.Helper()

	st := newTestStore(t)
	mailer := &fakeMailer{}

	accounts := &AccountService{
		Store:         st,
		Mailer:        mailer,
		BaseURL:       "https://app.spendlog.test",
		ResetTokenTTL: time.Hour,
		EmailTimeout:  time.Second,
	}
	sessions := &SessionService{
		Store:  st,
		Tokens: newTestIssuer(t),
	}
	return accounts, sessions, mailer
}

// registerVerified creates an account and walks it through verification.
func registerVerified(t *testing.T, accounts *AccountService, mailer *fakeMailer, email, password string) {
	t.Helper()

	_, err := accounts.Register(context.Background(), "Alice", email, password)
	require.NoError(t, err)

	token := tokenFromEmail(t, mailer.last(t).HTML)
	require.NoError(t, accounts.VerifyEmail(context.Background(), token))
}
