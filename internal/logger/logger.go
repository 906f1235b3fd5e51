package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

// Init initializes the logger to write JSON lines to stdout at the given
// level ("debug", "info", "warn" or "error"; anything else means info).
func Init(level string) {
	Setup(os.Stdout, level)
}

// Setup points the logger at w.  Tests use it to capture output.
func Setup(w io.Writer, level string) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true,
	})
	Logger = slog.New(handler)
}

// ParseLevel maps a LOG_LEVEL value onto a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func get() *slog.Logger {
	if Logger == nil {
		Init("info")
	}
	return Logger
}

// LogError logs an error with a message and optional key-value pairs
func LogError(msg string, err error, args ...any) {
	attrs := []any{"error", err}
	attrs = append(attrs, args...)
	get().Error(msg, attrs...)
}

// LogInfo logs an informational message with optional key-value pairs
func LogInfo(msg string, args ...any) {
	get().Info(msg, args...)
}

// LogWarn logs a warning message with optional key-value pairs
func LogWarn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// LogDebug logs a debug message with optional key-value pairs
func LogDebug(msg string, args ...any) {
	get().Debug(msg, args...)
}
