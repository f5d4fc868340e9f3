package logger

import (
	"log/slog"
	"os"
	"strings"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
}

type appLogger struct {
	log *slog.Logger
}

// New создает логгер с указанным уровнем (debug, info, warn, error)
func New(level string) Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return &appLogger{log: slog.New(handler)}
}

func (l *appLogger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *appLogger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *appLogger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *appLogger) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

func (l *appLogger) Fatal(msg string, args ...any) {
	l.log.Error(msg, args...)
	os.Exit(1)
}
