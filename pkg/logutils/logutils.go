// Package logutils builds zerolog loggers for the curator binaries.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

type options struct {
	console io.Writer
	appendF bool
	hooks   []zerolog.Hook
}

// Option configures New.
type Option func(*options)

// WithConsole writes human readable output to w instead of JSON. It only
// applies when no log file is given.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithAppend keeps existing log file content instead of truncating it.
func WithAppend() Option {
	return func(o *options) { o.appendF = true }
}

// WithHook attaches a zerolog hook to the logger.
func WithHook(h zerolog.Hook) Option {
	return func(o *options) { o.hooks = append(o.hooks, h) }
}

// New returns a new logger that writes JSON to the specified file.
// If file is empty, logs are written to stderr.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string, opts ...Option) (zerolog.Logger, func(), error) {
	closer := func() {}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer = os.Stderr
	switch {
	case file != "":
		logsDir := filepath.Dir(file)
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if o.appendF {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		osFile, err := os.OpenFile(file, flags, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = osFile.Close() }
		writer = osFile
	case o.console != nil:
		writer = zerolog.ConsoleWriter{Out: o.console, TimeFormat: time.Kitchen}
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	for _, h := range o.hooks {
		l = l.Hook(h)
	}

	return l, closer, nil
}
