// Package logging builds the zap loggers used by the command line and the
// stream server.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Format string

const (
	Console Format = "console"
	JSON    Format = "json"
)

// ParseLevel maps debug, info, warn and error to zap levels.
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("logging: unknown level %q", level)
	}
	return l, nil
}

// New returns a logger writing to stderr at the given level.
func New(level string, format Format) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == Console {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          string(format),
		EncoderConfig:     enc,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: lvl > zap.DebugLevel,
	}
	if format == JSON {
		config.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}
	return config.Build()
}
