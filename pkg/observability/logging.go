package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// LoggerConfig configures the process logger.
type LoggerConfig struct {
	Application string
	Environment string
	Level       string
}

// NewLogger builds a JSON slog logger carrying process-wide attributes.
func NewLogger(w io.Writer, cfg LoggerConfig) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})

	hostname, _ := os.Hostname()
	return slog.New(handler).With(
		slog.String("application", cfg.Application),
		slog.String("environment", cfg.Environment),
		slog.String("machine_name", hostname),
		slog.Int("pid", os.Getpid()),
	)
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// CorrelationID returns the request id assigned by the HTTP middleware.
func CorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", middleware.GetReqID(ctx))
}

// ErrorAttr logs err under the "error" key.
func ErrorAttr(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
