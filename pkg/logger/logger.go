// Package logger provides opinionated logging capabilities for the reels CLI.
//
// Loggers are standard *slog.Logger values so any package can take one
// without depending on this package. The handler behind it is chosen here:
// a plain text handler by default, slog's JSON handler for structured
// output, or charmbracelet/log for colorized human-friendly CLI output.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// config accumulates the handler settings applied by Options.
type config struct {
	level   slog.Level
	pretty  bool
	json    bool
	source  bool
	writers []io.Writer
}

// New returns a *slog.Logger configured by the given options.
// With no options it logs Info and above as text to stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:   slog.LevelInfo,
		writers: []io.Writer{os.Stdout},
	}

	for _, opt := range opts {
		opt(c)
	}

	var w io.Writer
	if len(c.writers) == 1 {
		w = c.writers[0]
	} else {
		w = io.MultiWriter(c.writers...)
	}

	var handler slog.Handler
	switch {
	case c.json:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		})

	case c.pretty:
		charmLevel := charmlog.InfoLevel
		if c.level <= slog.LevelDebug {
			charmLevel = charmlog.DebugLevel
		}

		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmLevel,
			ReportTimestamp: true,
			ReportCaller:    c.source,
		})

	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		})
	}

	return slog.New(handler)
}

// ForCommand builds the logger reels commands share: a pretty handler for
// terminal output, plus a JSON copy of every record to sink when debug is
// on, so a debug run leaves a machine-readable trace behind. A nil sink
// means terminal output only.
func ForCommand(debug bool, sink io.Writer) *slog.Logger {
	pretty := New(WithDebug(debug), WithPretty(true))
	if !debug || sink == nil {
		return pretty
	}

	return Multi(pretty, New(
		WithDebug(true),
		WithJSON(true),
		WithWriter(sink),
		WithSource(true),
	))
}

// Nop returns a logger that discards everything. Useful as a default in
// library types so callers never need to nil-check.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
