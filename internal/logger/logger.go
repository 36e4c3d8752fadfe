package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/skillforge-lms/internal/config"
)

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// NewLogger builds the JSON slog logger both binaries share. Source locations
// are only recorded at debug level to keep production log lines small.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	log := slog.New(handler)
	log.Info("logger initialized", "level", level)
	return log
}
