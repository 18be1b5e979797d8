// Package logging is a small printf-style logger shared by the audiodeck
// binaries. Until InitLogger (or Use) is called every call is a no-op.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// LogFileName is the name of the log file inside the log directory.
const LogFileName = "audiodeck.log"

const (
	subsystem       = "DECK"
	rotateThreshold = 1024 // KB
	defaultMaxFiles = 3
)

// Logger writes leveled log lines to a rotated file.
type Logger struct {
	rotator *rotator.Rotator
	log     slog.Logger

	mu     sync.Mutex
	prefix string
}

var (
	globalMu sync.RWMutex
	global   *Logger
)

// InitLogger opens <logDir>/audiodeck.log and installs it as the package
// logger. maxFiles <= 0 keeps the default number of rotated files.
func InitLogger(logDir string, maxFiles int) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}

	r, err := rotator.New(filepath.Join(logDir, LogFileName), rotateThreshold, false, maxFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to create log rotator: %w", err)
	}

	l := newLogger(r)
	l.rotator = r
	Use(l)
	return l, nil
}

// New returns a Logger writing to w. It is not installed globally.
func New(w io.Writer) *Logger {
	return newLogger(w)
}

func newLogger(w io.Writer) *Logger {
	backend := slog.NewBackend(w)
	log := backend.Logger(subsystem)
	log.SetLevel(slog.LevelInfo)
	return &Logger{log: log}
}

// Use installs l as the package logger. A nil l disables logging.
func Use(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

func current() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetLevel sets the minimum level: trace, debug, info, warn, error,
// critical or off.
func (l *Logger) SetLevel(level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	l.log.SetLevel(lvl)
	return nil
}

// SetPrefix sets a prefix written in front of every message.
func (l *Logger) SetPrefix(prefix string) {
	l.mu.Lock()
	l.prefix = prefix
	l.mu.Unlock()
}

func (l *Logger) format(format string, args []any) string {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	prefix := l.prefix
	l.mu.Unlock()
	if prefix == "" {
		return msg
	}
	return "[" + prefix + "] " + msg
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

// SetLevel sets the level of the package logger.
func SetLevel(level string) error {
	if l := current(); l != nil {
		return l.SetLevel(level)
	}
	return nil
}

// SetPrefix sets the prefix of the package logger.
func SetPrefix(prefix string) {
	if l := current(); l != nil {
		l.SetPrefix(prefix)
	}
}

func Debug(format string, args ...any) {
	if l := current(); l != nil {
		l.log.Debug(l.format(format, args))
	}
}

func Info(format string, args ...any) {
	if l := current(); l != nil {
		l.log.Info(l.format(format, args))
	}
}

func Warn(format string, args ...any) {
	if l := current(); l != nil {
		l.log.Warn(l.format(format, args))
	}
}

func Error(format string, args ...any) {
	if l := current(); l != nil {
		l.log.Error(l.format(format, args))
	}
}

// Close closes the package logger and uninstalls it.
func Close() {
	globalMu.Lock()
	l := global
	global = nil
	globalMu.Unlock()

	if l != nil {
		_ = l.Close()
	}
}
