package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the keyward process logger: JSON slog output at the
// provided level, defaulting to info when the level string is invalid.
// Codes delivered through the logger notifier end up here, so production
// deployments should pair info level with a real SMS provider.
func New(level string) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}
