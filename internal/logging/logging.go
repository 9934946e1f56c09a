// Package logging builds the zerolog logger used by the plugin.
// Stdout carries the plugin protocol, so nothing here ever writes to it.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

func init() {
	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = consoleTimeFormat
}

// Options selects the log sink and level
type Options struct {
	Level string
	File  string
}

// New returns a logger for opts and a func that releases its sink.
// An empty File logs to stderr through a ConsoleWriter; otherwise the file
// receives JSON lines.
func New(opts Options, stderr io.Writer) (zerolog.Logger, func() error, error) {
	lvl := ParseLevel(opts.Level, zerolog.WarnLevel)

	path := strings.TrimSpace(opts.File)
	if path == "" {
		cw := zerolog.ConsoleWriter{Out: stderr, TimeFormat: consoleTimeFormat}
		return zerolog.New(cw).Level(lvl).With().Timestamp().Logger(), noClose, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), noClose, fmt.Errorf("opening log file %q: %w", path, err)
	}
	zl := zerolog.New(zerolog.SyncWriter(f)).Level(lvl).With().Timestamp().Logger()
	return zl, f.Close, nil
}

func noClose() error { return nil }

// ParseLevel maps a config level name to a zerolog level, def when unknown
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED":
		return zerolog.Disabled
	default:
		return def
	}
}
