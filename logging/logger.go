package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/turbot/brewery-pipeline/constants"
)

// LevelOff is above every level slog emits, so nothing is logged
const LevelOff = slog.Level(100)

// Initialize installs the pipeline logger as the slog default.
// defaultLevel is used when BREWERY_LOG_LEVEL is not set.
func Initialize(name string, defaultLevel slog.Leveler) {
	slog.SetDefault(NewLogger(os.Stderr, name, defaultLevel))
}

// NewLogger returns a JSON logger writing to w, tagged with the given source name
func NewLogger(w io.Writer, name string, defaultLevel slog.Leveler) *slog.Logger {
	level := getLogLevel(defaultLevel)
	if level == LevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}

	handlerOptions := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewJSONHandler(w, handlerOptions)).With("source", name)
}

// getLogLevel reads BREWERY_LOG_LEVEL, which accepts any slog level name (e.g. "debug", "WARN", "info+2") or "off"
func getLogLevel(defaultLevel slog.Leveler) slog.Leveler {
	levelEnv := strings.TrimSpace(os.Getenv(constants.EnvLogLevel))
	if levelEnv == "" {
		return defaultLevel
	}
	if strings.EqualFold(levelEnv, "off") {
		return LevelOff
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelEnv)); err != nil {
		return defaultLevel
	}
	return level
}
