// Package logging provides diagnostic logging for devrig.
//
// Diagnostics go to stderr through charmbracelet/log and never mix with
// command output, so --json output stays machine-readable. The default level
// is warn; Setup(true, ...) or DEVRIG_DEBUG=1 enables debug logs:
//
//	logging.Setup(verbose, os.Stderr)
//	logging.Debug("found marker", "root", root, "marker", name)
//	logging.Warn("config override", "source", "env")
package logging

import (
	"io"
	"os"
	"sync"

	clog "github.com/charmbracelet/log"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, false)
)

// newLogger creates a logger writing to w at warn or debug level.
func newLogger(w io.Writer, verbose bool) *clog.Logger {
	l := clog.NewWithOptions(w, clog.Options{
		Prefix:          "devrig",
		ReportTimestamp: verbose,
		Level:           clog.WarnLevel,
	})
	if verbose || debugEnv() {
		l.SetLevel(clog.DebugLevel)
	}
	return l
}

// debugEnv reports whether DEVRIG_DEBUG requests debug logging.
func debugEnv() bool {
	switch os.Getenv("DEVRIG_DEBUG") {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// Setup replaces the package logger. verbose enables debug output.
func Setup(verbose bool, w io.Writer) {
	l := newLogger(w, verbose)
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the current logger.
func Logger() *clog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level.
func Debug(msg string, keyvals ...any) {
	Logger().Debug(msg, keyvals...)
}

// Info logs at info level.
func Info(msg string, keyvals ...any) {
	Logger().Info(msg, keyvals...)
}

// Warn logs at warn level.
func Warn(msg string, keyvals ...any) {
	Logger().Warn(msg, keyvals...)
}

// Error logs at error level.
func Error(msg string, keyvals ...any) {
	Logger().Error(msg, keyvals...)
}
