// Package logger provides structured logging for Compass.
//
// It wraps zap's SugaredLogger behind a package-level instance so the
// taxonomy and curriculum packages can log state transitions without
// carrying a logger through every constructor. The embedding application
// calls Initialize once at startup; before that every call is a no-op.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger *zap.SugaredLogger
	// JSONOutput tracks whether structured JSON output is enabled
	JSONOutput bool
)

func init() {
	// Initialize with a safe no-op logger at package load time.
	// This prevents nil pointer panics if the logger is used before
	// Initialize() is called (library consumers may never call it).
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger based on the JSON output preference
func Initialize(jsonOutput bool) error {
	JSONOutput = jsonOutput

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		// JSON structured output for machine consumption
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zapLogger, err = config.Build()
	} else {
		// Human-readable console output for development
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapLogger, err = config.Build()
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// SetLevel rebuilds the global logger at the given level, preserving the
// current output mode.
func SetLevel(level zapcore.Level) error {
	var config zap.Config
	if JSONOutput {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := config.Build()
	if err != nil {
		return err
	}
	Logger = zapLogger.Sugar()
	return nil
}

// With returns a child logger with the given key-value pairs attached.
// Use the Field* constants from this package for the keys.
func With(args ...interface{}) *zap.SugaredLogger {
	return Logger.With(args...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Logger.Sync()
}
