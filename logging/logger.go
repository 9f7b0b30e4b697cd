package logging

import (
	"io"
	"log/slog"
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/sales_analyzer/config"
)

// New returns a logger writing to w in the configured format. Every record
// carries the run_id of this invocation.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("run_id", NewRunID())
}

func NewRunID() string {
	return uuid.NewV4().String()
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
