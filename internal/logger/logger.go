// Package logger provides configured zerolog loggers.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout for long-running processes.
func New(service, level string) zerolog.Logger {
	return newLogger(os.Stdout, service, level)
}

// NewConsole returns a human-readable logger on stderr for CLI commands,
// keeping stdout free for command output.
func NewConsole(level string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

func newLogger(w io.Writer, service, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().
		Str("service", service).
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
