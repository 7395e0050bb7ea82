// Package logging provides zap logger helpers.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the shared application logger. It starts as a no-op logger so
// packages can log safely before InitLogger runs (tests, mostly).
var L = zap.NewNop()

var initOnce sync.Once

// InitLogger installs the global logger. Safe to call more than once.
func InitLogger(development bool) {
	initOnce.Do(func() {
		logger, err := New(development)
		if err != nil {
			logger = zap.Must(zap.NewProduction())
		}
		L = logger
		zap.ReplaceGlobals(logger)
	})
}

// New builds a zap.Logger configured for development or production.
func New(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = false
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}
