package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output but honours the level so Enabled checks
// behave like production.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
