// Package logger provides the shared zap logger. Output goes to a rotated
// file in the config directory only; stdout belongs to the menu and CLI.
package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "tradio.log"

var (
	global = zap.NewNop()
	mu     sync.RWMutex
)

// Init sets up file logging under dir. The level comes from
// TRADIO_LOG_LEVEL (debug, info, warn, error), defaulting to info.
// Before Init the package hands out a nop logger, so library code and tests
// can log unconditionally.
func Init(dir string) error {
	level := zapcore.InfoLevel
	switch os.Getenv("TRADIO_LOG_LEVEL") {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    5, // MB
		MaxBackups: 2,
		MaxAge:     14, // days
	})

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level)

	mu.Lock()
	global = zap.New(core)
	mu.Unlock()
	return nil
}

// L returns the shared logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes buffered log entries. Called before exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = global.Sync()
}
