// Package logger provides the leveled, structured logger used across Bulldoggy.
//
// Package-level helpers write through a shared default logger. Components
// obtain a child logger tagged with their name (see context.go) so a single
// process log can be filtered by subsystem.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger is the logging surface handed to components.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// Level controls which messages are emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a config string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options configures the default logger.
type Options struct {
	Level  Level
	Format string // "text" or "json"
	Output io.Writer
}

var (
	mu       sync.RWMutex
	level    = new(slog.LevelVar)
	defaultL Logger = newSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
)

// Configure replaces the default logger.
func Configure(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level.Set(opts.Level.slogLevel())
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	mu.Lock()
	defaultL = newSlogLogger(slog.New(handler))
	mu.Unlock()
}

// SetLevel changes the level of the default logger in place.
func SetLevel(l Level) {
	level.Set(l.slogLevel())
}

// Default returns the shared logger.
func Default() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultL
}

func Debug(msg string, fields ...interface{}) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...interface{})  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...interface{})  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...interface{}) { Default().Error(msg, fields...) }

// WithField returns the default logger with one extra attribute.
func WithField(key string, value interface{}) Logger {
	return Default().WithField(key, value)
}

// WithFields returns the default logger with extra attributes.
func WithFields(fields map[string]interface{}) Logger {
	return Default().WithFields(fields)
}

type slogLogger struct {
	l *slog.Logger
}

func newSlogLogger(l *slog.Logger) *slogLogger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, fields ...interface{}) { s.l.Debug(msg, fields...) }
func (s *slogLogger) Info(msg string, fields ...interface{})  { s.l.Info(msg, fields...) }
func (s *slogLogger) Warn(msg string, fields ...interface{})  { s.l.Warn(msg, fields...) }
func (s *slogLogger) Error(msg string, fields ...interface{}) { s.l.Error(msg, fields...) }

func (s *slogLogger) WithField(key string, value interface{}) Logger {
	return &slogLogger{l: s.l.With(key, value)}
}

func (s *slogLogger) WithFields(fields map[string]interface{}) Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &slogLogger{l: s.l.With(args...)}
}

// Nop discards everything. Useful in tests.
type Nop struct{}

func (Nop) Debug(msg string, fields ...interface{}) {}
func (Nop) Info(msg string, fields ...interface{})  {}
func (Nop) Warn(msg string, fields ...interface{})  {}
func (Nop) Error(msg string, fields ...interface{}) {}

func (n Nop) WithField(string, interface{}) Logger     { return n }
func (n Nop) WithFields(map[string]interface{}) Logger { return n }
