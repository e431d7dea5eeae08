// Package logger provides leveled logging for siteman.
//
// Log output goes to stderr, separate from the user-facing output that the
// output package writes to stdout. Components receive a *Logger handle
// explicitly; there is no package-global logging state.
//
// By default only Warn and Error are shown. Verbose mode enables Debug and
// Info as well:
//
//	log := logger.New(verbose)
//	log.Debugf("staging config at %s", path)
//	log.InfoFields("site state", map[string]interface{}{"available": true})
//
// Output format:
//
//	[LEVEL] YYYY-MM-DD HH:MM:SS message key=value ...
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	mu     sync.Mutex
	level  Level
	output io.Writer
}

// New creates a Logger writing to stderr. When verbose is true, Debug and
// Info levels are enabled; otherwise only Warn and Error are shown.
func New(verbose bool) *Logger {
	level := LevelWarn
	if verbose {
		level = LevelDebug
	}
	return &Logger{level: level, output: os.Stderr}
}

// NewWithOutput creates a Logger with an explicit level and destination.
// Tests use this to capture log lines.
func NewWithOutput(level Level, w io.Writer) *Logger {
	return &Logger{level: level, output: w}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{level: LevelError + 1, output: io.Discard}
}

// SetLevel sets the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s\n", level.String(), timestamp, msg)
}

func (l *Logger) logFields(level Level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	// Sort field keys for consistent output
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	fieldsStr := ""
	if len(parts) > 0 {
		fieldsStr = " " + strings.Join(parts, " ")
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s%s\n", level.String(), timestamp, msg, fieldsStr)
}

// Debugf logs a debug message. Only shown in verbose mode.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Infof logs an informational message. Only shown in verbose mode.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warnf logs a warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// DebugFields logs a debug message with structured key=value fields.
func (l *Logger) DebugFields(msg string, fields map[string]interface{}) {
	l.logFields(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func (l *Logger) InfoFields(msg string, fields map[string]interface{}) {
	l.logFields(LevelInfo, msg, fields)
}

// WarnFields logs a warning message with structured fields.
func (l *Logger) WarnFields(msg string, fields map[string]interface{}) {
	l.logFields(LevelWarn, msg, fields)
}
