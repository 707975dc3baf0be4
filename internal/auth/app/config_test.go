package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "expense-manager-api", cfg.Issuer)
	assert.Equal(t, "expense-manager-app", cfg.Audience)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "auth.db", cfg.DatabaseFile)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, "log", cfg.EmailProvider)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.False(t, cfg.IsProd())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "my-issuer")
	t.Setenv("AUTH_ACCESS_TTL", "15m")
	t.Setenv("AUTH_REFRESH_TTL", "48h")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("AUTH_BASE_URL", "https://spendlog.example.com")
	t.Setenv("LOGIN_FAILURE_DELAY", "250ms")

	cfg := LoadConfig()

	assert.Equal(t, "my-issuer", cfg.Issuer)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "https://spendlog.example.com", cfg.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.LoginFailureDelay)
}

func TestLoadConfigBadValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("AUTH_ACCESS_TTL", "bogus")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
}

func TestProdRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_DATABASE_FILE", t.TempDir()+"/auth.db")

	cfg := LoadConfig()
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestDevGeneratesEphemeralSecret(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_DATABASE_FILE", t.TempDir()+"/auth.db")

	cfg := LoadConfig()
	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.NotNil(t, app.tokens)
}
