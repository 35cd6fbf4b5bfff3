// Package logging builds the zap loggers used across the shell.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level, output format and destinations.
type Config struct {
	Level string // zap level name: debug, info, warn, error
	// Development switches to colored console output with stack traces on
	// warnings; otherwise lines are JSON.
	Development bool
	Outputs     []string // zap sink URLs or paths; empty means stderr
}

// DefaultConfig is used for release builds.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// DevelopmentConfig is used when running under `wails dev` or a dev version.
func DevelopmentConfig() Config {
	return Config{Level: "debug", Development: true}
}

// New builds a logger for cfg. An unknown level is an error.
func New(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          "json",
		EncoderConfig:     encoderConfig(cfg.Development),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !cfg.Development,
	}
	if cfg.Development {
		zc.Encoding = "console"
	}
	return zc.Build()
}

// NewDefault returns a release logger, or a no-op logger if it cannot be
// built. Logging never stops the app from starting.
func NewDefault() *zap.Logger {
	return buildOrNop(DefaultConfig())
}

// NewDevelopment is NewDefault for development builds.
func NewDevelopment() *zap.Logger {
	return buildOrNop(DevelopmentConfig())
}

// OrNop lets components accept a nil logger.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func buildOrNop(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "ts"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	if development {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeDuration = zapcore.StringDurationEncoder
	}
	return ec
}
