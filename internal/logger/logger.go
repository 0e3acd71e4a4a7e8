// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance.
var Log zerolog.Logger

func init() {
	Log = newConsole(os.Stdout)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func newConsole(out io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel sets the global log level.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// SetJSON switches to JSON output (for production).
func SetJSON() {
	SetOutput(os.Stdout, true)
}

// SetOutput redirects the global logger to w, as JSON or console lines.
func SetOutput(w io.Writer, asJSON bool) {
	if !asJSON {
		Log = newConsole(w)
		return
	}
	Log = zerolog.New(w).
		With().
		Timestamp().
		Logger()
}

// Configure applies level and format ("json" or "console") in one call.
func Configure(level, format string) {
	SetLevel(level)
	if strings.EqualFold(format, "json") {
		SetJSON()
	}
}
