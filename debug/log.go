package debug

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logger  *zap.SugaredLogger
	enabled bool
)

// Enable starts debug logging to ~/.config/mptcc/debug.log
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	homeDir, _ := os.UserHomeDir()
	dir := filepath.Join(homeDir, ".config", "mptcc")
	os.MkdirAll(dir, 0755)

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, "debug.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	logger = l.Sugar()
	enabled = true
	logger.Infow("debug logging started")
	return nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		logger.Sync()
		logger = nil
	}
	enabled = false
}

// Log writes a message to the debug log. Safe from any goroutine, but keep
// it off the engine tick path.
func Log(category, format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()

	if l == nil {
		return
	}
	l.Named(category).Infof(format, args...)
}

// Error logs an error under a category
func Error(category string, err error) {
	mu.Lock()
	l := logger
	mu.Unlock()

	if l == nil || err == nil {
		return
	}
	l.Named(category).Error(err.Error())
}
