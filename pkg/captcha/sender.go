package captcha

import (
	"context"
	"log/slog"
)

// Sender delivers a code to its recipient.
type Sender interface {
	Send(ctx context.Context, channel Channel, recipient, code string) error
}

// LogSender writes codes to the log instead of delivering them. It is the
// development sender; production deployments plug in a mail/SMS provider.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, channel Channel, recipient, code string) error {
	s.logger.InfoContext(ctx, "captcha issued",
		slog.String("channel", string(channel)),
		slog.String("recipient", recipient),
		slog.String("code", code),
	)
	return nil
}
