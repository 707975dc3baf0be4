package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer   string // Optional: issuer claim for tokens (default: expense-manager-api)
	Audience string // Optional: audience claim for tokens (default: expense-manager-app)

	JWTSecret  string        // Required in prod: HS256 signing secret; dev generates an ephemeral one
	AccessTTL  time.Duration // Optional: access token lifetime (default: 1h)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 7 days)

	DatabaseFile string // Optional: path to SQLite database file (default: ./auth.db)
	BaseURL      string // Optional: public origin used in emailed links (default: http://localhost:<port>)

	ResetTokenTTL     time.Duration // Optional: password reset link lifetime (default: 1h)
	EmailTimeout      time.Duration // Optional: per-delivery timeout (default: 10s)
	LoginFailureDelay time.Duration // Optional: fixed delay on invalid credentials (default: 1s)

	EmailProvider     string // Optional: email transport (log, api, smtp) (default: log)
	EmailFromName     string // Optional: sender display name
	EmailFromAddress  string // Optional: sender address (required for api/smtp)
	EmailAPIURL       string // Optional: transactional API endpoint (for api provider)
	EmailAPIKey       string // Optional: transactional API key (for api provider)
	EmailSMTPHost     string // Optional: SMTP relay host (for smtp provider)
	EmailSMTPPort     int    // Optional: SMTP relay port (for smtp provider)
	EmailSMTPUsername string // Optional: SMTP username
	EmailSMTPPassword string // Optional: SMTP password

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:   getEnvOrDefault("AUTH_ISSUER", "expense-manager-api"),
		Audience: getEnvOrDefault("AUTH_AUDIENCE", "expense-manager-app"),

		JWTSecret:  os.Getenv("AUTH_JWT_SECRET"),
		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", time.Hour),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", 7*24*time.Hour),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		BaseURL:      os.Getenv("AUTH_BASE_URL"),

		ResetTokenTTL:     getEnvDurationOrDefault("AUTH_RESET_TOKEN_TTL", time.Hour),
		EmailTimeout:      getEnvDurationOrDefault("EMAIL_TIMEOUT", 10*time.Second),
		LoginFailureDelay: getEnvDurationOrDefault("LOGIN_FAILURE_DELAY", time.Second),

		EmailProvider:     getEnvOrDefault("EMAIL_PROVIDER", "log"),
		EmailFromName:     os.Getenv("EMAIL_FROM_NAME"),
		EmailFromAddress:  os.Getenv("EMAIL_FROM"),
		EmailAPIURL:       os.Getenv("EMAIL_API_URL"),
		EmailAPIKey:       os.Getenv("EMAIL_API_KEY"),
		EmailSMTPHost:     os.Getenv("EMAIL_SMTP_HOST"),
		EmailSMTPPort:     getEnvIntOrDefault("EMAIL_SMTP_PORT", 587),
		EmailSMTPUsername: os.Getenv("EMAIL_SMTP_USER"),
		EmailSMTPPassword: os.Getenv("EMAIL_SMTP_PASS"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	return cfg
}

// IsProd reports whether the service runs with production hardening, which
// requires a configured signing secret and Secure cookies.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
