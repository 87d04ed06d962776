package logger

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

const (
	EnvDevelopment = "dev"
	EnvProduction  = "prod"
)

// Logger is the logging contract used across the service
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
}

// New creates a logger for the given environment: human readable text
// handler for dev, JSON for prod
func New(environment string, level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch environment {
	case EnvDevelopment:
		handler = slog.NewTextHandler(os.Stdout, opts)
	case EnvProduction:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		return nil, errors.New("unknown environment: " + environment)
	}

	return &slogLogger{logger: slog.New(handler)}, nil
}

// NewNoOp creates a logger that discards everything. Handy in tests.
func NewNoOp() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("unknown log level: " + level)
	}
}
