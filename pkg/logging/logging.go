package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
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

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo // Default to INFO for unknown
	}
}

// ParseLevel converts a configuration string ("debug", "info", ...) to a LogLevel.
// Unknown values map to LevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LogEntry is a structured log entry kept in the recent-entries buffer.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Subsystem string
	Message   string
	Err       error
}

// String renders the entry as a single line for the log viewer.
func (e LogEntry) String() string {
	line := fmt.Sprintf("%s [%-5s] [%s] %s", e.Timestamp.Format("15:04:05"), e.Level, e.Subsystem, e.Message)
	if e.Err != nil {
		line += ": " + e.Err.Error()
	}
	return line
}

var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
	minLevel      LogLevel
	recent        []LogEntry
	recentSize    int
	isTuiMode     bool
)

const defaultRecentSize = 500

func initCommon(mode string, level LogLevel, output io.Writer, bufferSize int) {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}
	isTuiMode = mode == "tui"
	minLevel = level
	if bufferSize <= 0 {
		bufferSize = defaultRecentSize
	}
	recentSize = bufferSize
	recent = nil

	defaultLogger = slog.New(slog.NewTextHandler(output, opts))
	slog.SetDefault(defaultLogger)
}

// InitForTUI initializes logging while dialogs own the terminal.
// Entries go to output (normally a log file) and into an in-memory buffer
// of the last bufferSize entries, readable through Recent.
func InitForTUI(filterLevel LogLevel, output io.Writer, bufferSize int) {
	initCommon("tui", filterLevel, output, bufferSize)
}

// InitForCLI initializes the logging system for CLI mode.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	initCommon("cli", filterLevel, output, 0)
}

// Recent returns a copy of the buffered entries, oldest first.
func Recent() []LogEntry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]LogEntry, len(recent))
	copy(out, recent)
	return out
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	now := time.Now()

	mu.Lock()
	logger := defaultLogger
	if isTuiMode && level >= minLevel {
		recent = append(recent, LogEntry{
			Timestamp: now,
			Level:     level,
			Subsystem: subsystem,
			Message:   msg,
			Err:       err,
		})
		if len(recent) > recentSize {
			recent = recent[len(recent)-recentSize:]
		}
	}
	mu.Unlock()

	if logger == nil {
		fmt.Fprintf(os.Stderr, "[LOGGING_ERROR] Logger not initialized. Log: %s [%s] %s\n", now.Format(time.RFC3339), level, msg)
		return
	}

	slogAttrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		slogAttrs = append(slogAttrs, slog.String("error", err.Error()))
	}

	logger.LogAttrs(context.Background(), level.SlogLevel(), msg, slogAttrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
