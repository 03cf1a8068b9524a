// Package logger provides leveled logging for webrecall.
// Debug output is enabled with the --verbose flag; long-running commands
// such as serve raise the level to Info. WEBRECALL_LOG_LEVEL overrides both.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "WEBRECALL_LOG_LEVEL"

var (
	mu       sync.RWMutex
	verbose  bool
	envLevel bool
	output  io.Writer = os.Stderr
	level   slog.LevelVar
	log     *slog.Logger
)

func init() {
	level.Set(slog.LevelWarn)
	if l, ok := ParseLevel(os.Getenv(EnvLevel)); ok {
		level.Set(l)
		envLevel = true
	}
	log = newLogger(output)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level}))
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetLevel sets the minimum level directly.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// EnableAtLeast lowers the minimum level to l if it is currently higher.
// A level set through WEBRECALL_LOG_LEVEL is left alone.
func EnableAtLeast(l slog.Level) {
	mu.RLock()
	fixed := envLevel
	mu.RUnlock()
	if !fixed && level.Level() > l {
		level.Set(l)
	}
}

// Level returns the current minimum level.
func Level() slog.Level {
	return level.Level()
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = newLogger(w)
}

// Logger returns the underlying slog logger, for libraries that accept one.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	Logger().Debug(fmt.Sprintf(format, args...))
}

// Section logs a pipeline stage header at debug level.
func Section(name string) {
	Logger().Debug("=== " + name + " ===")
}

// Info logs a formatted message at info level.
func Info(format string, args ...any) {
	Logger().Info(fmt.Sprintf(format, args...))
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) {
	Logger().Warn(fmt.Sprintf(format, args...))
}

// Error logs a formatted message at error level.
func Error(format string, args ...any) {
	Logger().Error(fmt.Sprintf(format, args...))
}
