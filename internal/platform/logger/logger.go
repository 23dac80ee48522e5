package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger writing to stdout. format is "json" or
// "text"; anything else falls back to text.
func New(format string) *slog.Logger {
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, nil)
	default:
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
