// Package logging builds the zerolog logger shared by the server and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sadopc/dayplan/internal/config"
)

const (
	timeFormat = "2006-01-02_15:04:05"
	filePerms  = 0o664
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger at cfg.Level. With console set it writes human-readable
// lines to stderr, otherwise JSON lines appended to cfg.File. The returned
// closer releases the log file.
func New(cfg config.LogConfig, console bool) (zerolog.Logger, io.Closer, error) {
	if console {
		logger, err := NewWriter(os.Stderr, cfg.Level, true)
		return logger, nopCloser{}, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerms)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file %s: %w", cfg.File, err)
	}
	logger, err := NewWriter(zerolog.SyncWriter(f), cfg.Level, false)
	if err != nil {
		f.Close()
		return zerolog.Nop(), nil, err
	}
	return logger, f, nil
}

// NewWriter returns a timestamped logger writing to w.
func NewWriter(w io.Writer, level string, console bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
