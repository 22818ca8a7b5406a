// Package debug provides logging, buffer analysis and profiling for plugin
// development.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	}
	return slog.LevelError + 100
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "off", "none":
		return LogLevelOff, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Format selects the slog handler.
type Format int

const (
	// FormatText writes key=value lines.
	FormatText Format = iota
	// FormatJSON writes one JSON object per line.
	FormatJSON
)

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// Logger is a leveled, printf-style logger backed by log/slog. The prefix is
// emitted as the "component" attribute.
type Logger struct {
	mu      sync.Mutex
	output  io.Writer
	prefix  string
	format  Format
	level   slog.LevelVar
	enabled atomic.Bool
	logger  *slog.Logger
	attrs   []any
}

var defaultLogger = New(os.Stderr, "")

// New creates a text logger at LogLevelInfo.
func New(output io.Writer, prefix string) *Logger {
	l := &Logger{output: output, prefix: prefix}
	l.level.Set(slog.LevelInfo)
	l.enabled.Store(true)
	l.rebuild()
	return l
}

// rebuild must be called with mu held or before the logger is shared.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: &l.level}
	var h slog.Handler
	if l.format == FormatJSON {
		h = slog.NewJSONHandler(l.output, opts)
	} else {
		h = slog.NewTextHandler(l.output, opts)
	}
	logger := slog.New(h)
	if l.prefix != "" {
		logger = logger.With("component", l.prefix)
	}
	if len(l.attrs) > 0 {
		logger = logger.With(l.attrs...)
	}
	l.logger = logger
}

// SetOutput sets the output destination for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetFormat switches between text and JSON output.
func (l *Logger) SetFormat(f Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = f
	l.rebuild()
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.level.Set(level.slogLevel())
}

// SetEnabled enables or disables the logger.
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled.Store(enabled)
}

// IsEnabled returns whether the logger is enabled.
func (l *Logger) IsEnabled() bool {
	return l.enabled.Load()
}

// With returns a child logger that adds attrs to every record. The child
// keeps its own level, starting from the parent's.
func (l *Logger) With(args ...any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	child := &Logger{
		output: l.output,
		prefix: l.prefix,
		format: l.format,
		attrs:  append(append([]any(nil), l.attrs...), args...),
	}
	child.level.Set(l.level.Level())
	child.enabled.Store(l.enabled.Load())
	child.rebuild()
	return child
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logger
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	if !l.enabled.Load() {
		return
	}
	logger := l.Slog()
	ctx := context.Background()
	if !logger.Enabled(ctx, level.slogLevel()) {
		return
	}
	logger.Log(ctx, level.slogLevel(), fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LogLevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LogLevelError, format, args...)
}

// Global logger functions

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// SetOutput sets the output destination for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetFormat sets the handler format of the default logger.
func SetFormat(f Format) {
	defaultLogger.SetFormat(f)
}

// Debug logs a debug message using the default logger.
func Debug(format string, args ...any) {
	defaultLogger.Debug(format, args...)
}

// Info logs an informational message using the default logger.
func Info(format string, args ...any) {
	defaultLogger.Info(format, args...)
}

// Warn logs a warning message using the default logger.
func Warn(format string, args ...any) {
	defaultLogger.Warn(format, args...)
}

// Error logs an error message using the default logger.
func Error(format string, args ...any) {
	defaultLogger.Error(format, args...)
}
