package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init initializes the global logger.
// It configures the default slog logger to write to the specified path (or stderr)
// at the specified level. Calling Init again replaces the previous logger and
// closes the file it was writing to.
//
// path: Log file path. If empty, logs to stderr.
// level: Log level ("debug", "info", "warn", "error"). Defaults to "info".
func Init(path string, level string) error {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = os.Stderr
	var f *os.File
	if path != "" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}

		var err error
		f, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		w = f
	}

	setDefault(w, level)

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return nil
}

// Close closes the log file opened by Init, if any, and falls back to stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	setDefault(os.Stderr, "info")
	err := logFile.Close()
	logFile = nil
	return err
}

func setDefault(w io.Writer, level string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
