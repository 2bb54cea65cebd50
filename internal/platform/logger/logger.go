package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Components receive it via
// constructor injection; nothing in this codebase reaches for a package-level
// logger.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
