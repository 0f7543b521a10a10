// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()                            // level from LOG_LEVEL env
//	logging.SetupWithLevelName(cfg.Log.Level)  // level from config
//	logging.SetupWithLevel(slog.LevelDebug)    // explicit level override
//
// Levels: debug, info, warn, error (default: info)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevelName(os.Getenv("LOG_LEVEL"))
}

// SetupWithLevelName configures colored logging at the named level.
func SetupWithLevelName(name string) {
	SetupWithLevel(ParseLevel(name))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
