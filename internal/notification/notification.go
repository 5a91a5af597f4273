package notification

import (
	"context"
	"log/slog"
)

// Notifier delivers one-time codes to phone numbers out-of-band.
type Notifier interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LoggerNotifier is a stub implementation that writes codes to the logger.
// Used in development when no SMS provider is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// SendCode writes the code to the structured logger.
func (n *LoggerNotifier) SendCode(_ context.Context, phone, code string) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("verification code", "phone", phone, "code", code)
	return nil
}
