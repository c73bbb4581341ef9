// Package logger provides configurable logging for the editing core.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the logger settings loaded from the application config.
type Config struct {
	// LogLevel is the minimum level to log: "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`

	// LogFilePath is the output log file. Empty picks a default location
	// under the user cache dir; "-" logs to stderr.
	LogFilePath string `toml:"log_file_path"`
}

// ParseLevel converts the configured level string to a slog.Level.
func (c Config) ParseLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup resolves the output writer from the config and initializes the
// package. It returns a closer for the log file (nil when none was opened).
func Setup(cfg Config, appName string) (io.Closer, error) {
	var out io.Writer
	var closer io.Closer

	switch cfg.LogFilePath {
	case "-":
		out = os.Stderr
	case "":
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			out = io.Discard
			break
		}
		path := filepath.Join(cacheDir, appName, appName+".log")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file '%s': %w", path, err)
		}
		out = f
		closer = f
	default:
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file '%s': %w", cfg.LogFilePath, err)
		}
		out = f
		closer = f
	}

	Init(cfg.ParseLevel(), out)
	return closer, nil
}
