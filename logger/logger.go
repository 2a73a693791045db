// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	globalLogger = slog.Default()
	once         sync.Once
)

type Config struct {
	Level  string `json:"level" yaml:"level"`   // debug/info/warn/error
	Output string `json:"output" yaml:"output"` // empty/"stdout"/"stderr" or a file path
}

// Init builds the global logger from cfg. Only the first call has effect.
func Init(cfg Config) error {
	var initErr error
	once.Do(func() {
		level := slog.LevelInfo
		switch cfg.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		var w io.Writer
		switch cfg.Output {
		case "", "stdout":
			w = os.Stdout
		case "stderr":
			w = os.Stderr
		default:
			if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
				initErr = err
				return
			}
			file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				initErr = err
				return
			}
			w = file
		}

		globalLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
	})
	return initErr
}

func Debug(msg string, args ...any) { globalLogger.Debug(msg, args...) }

func Info(msg string, args ...any) { globalLogger.Info(msg, args...) }

func Warn(msg string, args ...any) { globalLogger.Warn(msg, args...) }

func Error(msg string, args ...any) { globalLogger.Error(msg, args...) }

func Logger() *slog.Logger { return globalLogger }
