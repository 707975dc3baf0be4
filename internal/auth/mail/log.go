package mail

import (
	"context"
	"log/slog"
)

// LogSender writes emails to the log instead of delivering them. It is the
// default in development so flows can be exercised without a mail account.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, html string) error {
	s.logger.Info("email (log provider, not delivered)",
		"to", to,
		"subject", subject,
		"body", html,
	)
	return nil
}
