// Package logging sets up the process-wide slog logger: a rotating
// file sink via lumberjack, plus stderr when running in the
// foreground, with verbosity gated by -v/--verbose.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls how New builds a logger.
type Options struct {
	// LogPath, if non-empty, receives rotated file output.
	LogPath string
	// Verbose enables debug-level logging; otherwise info-level.
	Verbose bool
	// JSON selects slog's JSON handler instead of its text handler.
	JSON bool
	// Stderr additionally mirrors output to stderr (foreground mode).
	Stderr bool
}

const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 30
)

// New builds a *slog.Logger per opts, and the *lumberjack.Logger (if
// any) so the caller can Close it on shutdown.
func New(opts Options) (*slog.Logger, *lumberjack.Logger) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var writers []io.Writer
	var rotated *lumberjack.Logger
	if opts.LogPath != "" {
		rotated = &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		writers = append(writers, rotated)
	}
	if opts.Stderr || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer = io.MultiWriter(writers...)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler), rotated
}

// Discard returns a logger that drops everything, for tests and
// library callers who don't want log noise.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
