// Package logging builds the diagnostic logger shared by the client.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where and how much to log.
type Options struct {
	Level string
	File  string
	// Console writes human-readable lines to Stderr when no file is set.
	Console bool
	Stderr  io.Writer
	NoColor bool
}

// New returns a logger and a closer for any file it opened. Without a
// file and without Console, logs are discarded so they never reach a
// full-screen UI.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	closer := func() error { return nil }
	var out io.Writer
	switch {
	case opts.File != "":
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return zerolog.Nop(), nil, fmt.Errorf("log dir: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	case opts.Console:
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		out = zerolog.ConsoleWriter{Out: stderr, NoColor: opts.NoColor, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), closer, nil
	}
	log := zerolog.New(out).Level(level).With().Timestamp().Str("app", "intervue").Logger()
	return log, closer, nil
}
