package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds a human-readable logger on w. An empty or unknown level
// falls back to warn so command output stays clean.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(consoleWriter).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "cli").
		Logger()
}
