// Package logger builds the process logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger tagged with the service name.  In dev the
// output is human readable and debug level is enabled.
func New(env string) *zerolog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter is New writing to w.
func NewWithWriter(env string, w io.Writer) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	out := w
	if env == "dev" {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	l := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", "maidaan").
		Str("env", env).
		Logger()
	return &l
}

// Nop discards everything.  Tests use it.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
