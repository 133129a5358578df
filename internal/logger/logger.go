// Package logger builds the process-wide structured logger from the
// LOG_LEVEL, LOG_FORMAT, and LOG_OUTPUT settings.
package logger

import (
	"io"
	"log/slog"
)

// Config selects the log level, encoding, and destination.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// NewLogger returns a slog.Logger writing to output. An unrecognized level
// falls back to info and an unrecognized format to the text handler, so a
// misconfigured deployment still logs.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
}
