package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger configured for stdout. The level is taken from
// SW_LOG_LEVEL when set (debug, info, warn, error), defaulting to info.
func New() zerolog.Logger {
	return zerolog.New(os.Stdout).
		Level(levelFromEnv()).
		With().
		Timestamp().
		Logger()
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SW_LOG_LEVEL"))) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
