// Package logging provides a singleton structured logger backed by
// zerolog. The terminal owns stdout, so logs go to a file under the
// data directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu       sync.Mutex
	instance = zerolog.Nop()
	logFile  *os.File
)

// Init opens (or creates) the log file at path and configures the
// singleton logger. Subsequent calls replace the previous sink.
func Init(path string, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	zerolog.TimeFieldFormat = time.RFC3339
	instance = zerolog.New(f).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()

	return nil
}

// Get returns the singleton logger. Before Init it is a no-op logger,
// so library code and tests can log unconditionally.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	instance = zerolog.Nop()
}

// parseLevel converts a string to a zerolog.Level, defaulting to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
