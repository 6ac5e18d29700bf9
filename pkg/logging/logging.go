// Package logging configures the process-wide slog logger.
//
// Environment variables:
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text (colored, default) or json
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger for the named service.
func Setup(service string) *slog.Logger {
	logger := New(os.Stderr, service, levelFromEnv(), os.Getenv("LOG_FORMAT"))
	slog.SetDefault(logger)
	return logger
}

func New(w io.Writer, service string, level slog.Level, format string) *slog.Logger {
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  level == slog.LevelDebug,
		})
	}

	logger := slog.New(handler).With("service", service)
	if hostname, err := os.Hostname(); err == nil {
		logger = logger.With("hostname", hostname)
	}
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
