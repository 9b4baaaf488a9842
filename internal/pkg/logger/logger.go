// Package logger is the structured logger shared by the API, the migrator
// and the background jobs. It is a thin layer over zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger writes leveled JSON (or console) entries.
type Logger struct {
	zl zerolog.Logger
}

// Config selects level, encoding and destination.
type Config struct {
	Level      string
	Format     string // json or console
	OutputPath string // empty or "stdout" writes to stdout

	// Service and Version are stamped on every entry when set.
	Service string
	Version string
}

// New builds a logger from cfg. An OutputPath that cannot be opened
// falls back to stdout.
func New(cfg Config) *Logger {
	out := openOutput(cfg.OutputPath)
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := NewWithWriter(out, cfg.Level)
	base := l.zl.With()
	if cfg.Service != "" {
		base = base.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		base = base.Str("version", cfg.Version)
	}
	return &Logger{zl: base.Logger()}
}

func openOutput(path string) io.Writer {
	if path == "" || path == "stdout" {
		return os.Stdout
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot open %s, using stdout: %v\n", path, err)
		return os.Stdout
	}
	return f
}

// NewWithWriter builds a JSON logger on w. Tests use it to capture output.
func NewWithWriter(w io.Writer, level string) *Logger {
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Caller().Logger()
	return &Logger{zl: zl}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// parseLevel accepts zerolog level names in any case. Unknown or empty
// names mean info.
func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zl.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zl.Error().Msg(msg) }

func (l *Logger) Infof(format string, v ...interface{})  { l.zl.Info().Msgf(format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.zl.Warn().Msgf(format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.zl.Error().Msgf(format, v...) }

// ErrorWithErr logs msg at error level with err attached.
func (l *Logger) ErrorWithErr(err error, msg string) {
	l.zl.Error().Err(err).Msg(msg)
}

// With returns a child logger carrying key.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithFields returns a child logger carrying every entry of fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

// WithError returns a child logger carrying err.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}

// Component tags entries from one subsystem, e.g. "billing" or "scheduler".
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level string) bool {
	return parseLevel(level) >= l.zl.GetLevel()
}
