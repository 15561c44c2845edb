package logger

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	current atomic.Pointer[zap.Logger]
	nop     = zap.NewNop()
)

// L returns the process logger. It is a no-op logger until SetLogger or Init is called.
func L() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger replaces the process logger. Safe to call while other goroutines log.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = nop
	}
	current.Store(l)
}

// Init builds a logger for the given environment and level and installs it.
// Production gets JSON output, everything else the console encoder.
func Init(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	SetLogger(l)
	return l, nil
}
