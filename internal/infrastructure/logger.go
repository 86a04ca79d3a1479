// Package infrastructure provides the cross-cutting runtime pieces: the
// global slog logger, trace-id context plumbing, and OpenTelemetry setup.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"rapihcli/internal/config"
)

var (
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
)

// InitializeLogger creates and installs the application-wide slog logger.
// Call once during startup; later calls return the first result.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	globalLoggerOnce.Do(func() {
		globalLogger, err = createLogger(cfg)
		if globalLogger != nil {
			slog.SetDefault(globalLogger)
		}
	})
	if globalLogger == nil && err == nil {
		return slog.Default(), nil
	}
	return globalLogger, err
}

// GetLogger returns the global logger, or slog.Default when logging was
// never initialized.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

func createLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		output = file
	case "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		output = io.MultiWriter(os.Stdout, file)
	default:
		output = os.Stdout
	}

	return slog.New(slog.NewJSONHandler(output, opts)), nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
