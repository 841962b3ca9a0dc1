package core

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. Logs go to a file under the
// base path rather than the terminal, which the TUI owns.
func NewLogger(basePath, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return zerolog.Nop(), err
	}
	f, err := os.OpenFile(filepath.Join(basePath, "pulse.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), err
	}

	return zerolog.New(f).Level(lvl).With().Timestamp().Logger(), nil
}

// NewConsoleLogger builds a human-readable logger for non-TUI commands.
func NewConsoleLogger(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(lvl).With().Timestamp().Logger()
}
