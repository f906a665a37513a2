// Package logger builds the slog.Logger shared by dealhound commands.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls logger construction.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Writer io.Writer

	// Component, when set, is attached to every record.
	Component string
}

// New creates a *slog.Logger writing to stderr.
func New(level, format string) *slog.Logger {
	return Build(Options{Level: level, Format: format})
}

// Build creates a *slog.Logger from opts. Unknown formats fall back to text.
func Build(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	l := slog.New(handler)
	if opts.Component != "" {
		l = l.With("component", opts.Component)
	}
	return l
}

// Install builds a logger and makes it the process default, so packages
// falling back to slog.Default share its level and format.
func Install(opts Options) *slog.Logger {
	l := Build(opts)
	slog.SetDefault(l)
	return l
}

// ForRun returns a child logger tagged with the run id.
func ForRun(l *slog.Logger, runID string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("run_id", runID)
}

// ParseLevel converts a level string to slog.Level, ignoring case.
// "warning" is accepted as an alias of "warn". Everything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
