// Package logging builds the process-wide structured logger from configuration.
package logging

import (
	"io"
	"log/slog"

	"github.com/user/taskmanager-go/config"
)

// New returns a slog.Logger writing to w in the configured format and at the
// configured minimum level. Unknown levels fall back to info.
func New(cfg *config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error to their slog levels.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
