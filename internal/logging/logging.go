// Package logging provides categorized structured logging for chainchat,
// built on zap. Each subsystem logs through a named child logger so log lines
// can be filtered per category. Before Initialize is called (and in tests)
// loggers are no-ops, which keeps the interactive TUI's screen clean.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names used across the codebase.
const (
	CategoryAPI     = "api"
	CategoryChat    = "chat"
	CategoryPoller  = "poller"
	CategorySession = "session"
	CategoryRPC     = "rpc"
	CategoryUI      = "ui"
)

// Options controls logger construction.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // json, text
	File    string // log file path; empty means stderr
	Verbose bool   // forces debug level
}

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Initialize builds the process-wide logger. Safe to call more than once; the
// last call wins. The interactive chat passes a file path so log output never
// corrupts the TUI.
func Initialize(opts Options) error {
	level := zapcore.InfoLevel
	switch opts.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if opts.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := zapcore.Lock(os.Stderr)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.Lock(f)
	}

	logger := zap.New(zapcore.NewCore(enc, sink, level))

	mu.Lock()
	root = logger
	mu.Unlock()
	return nil
}

// L returns the sugared logger for a category.
func L(category string) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(category).Sugar()
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
