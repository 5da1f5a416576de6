// Package logger holds the process-wide structured logger.
package logger

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global logger instance. It discards all output until Init is
// called.
var L = zap.NewNop()

// Options configures the logger initialization.
type Options struct {
	Enabled bool   // If false, all logging is discarded
	Path    string // Log file. Default: stderr
	Level   string // Minimum level (debug, info, warn, error). Default: info
	JSON    bool   // JSON encoding instead of console
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	if !opts.Enabled {
		L = zap.NewNop()
		return nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return errors.Wrap(err, "logger: level")
		}
		level = l
	}

	sink := zapcore.Lock(os.Stderr)
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return errors.Wrap(err, "logger: create log directory")
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "logger: open log file")
		}
		sink = zapcore.AddSync(f)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	L = zap.New(zapcore.NewCore(enc, sink, level))
	return nil
}

// Sync flushes buffered log entries.
func Sync() error { return L.Sync() }

// Debug logs a debug message with optional fields.
func Debug(msg string, fields ...zap.Field) { L.Debug(msg, fields...) }

// Info logs an info message with optional fields.
func Info(msg string, fields ...zap.Field) { L.Info(msg, fields...) }

// Warn logs a warning message with optional fields.
func Warn(msg string, fields ...zap.Field) { L.Warn(msg, fields...) }

// Error logs an error message with optional fields.
func Error(msg string, fields ...zap.Field) { L.Error(msg, fields...) }
