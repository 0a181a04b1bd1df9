package internal

import (
	"fmt"

	"github.com/deevus/blogstats/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger writing to cfg.File, or to fallback when no
// file is set. An empty fallback yields a no-op logger, which the TUI needs
// because anything written to the terminal would corrupt the screen.
func NewLogger(cfg config.LogConfig, fallback string) (*zap.Logger, error) {
	out := cfg.File
	if out == "" {
		out = fallback
	}
	if out == "" {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{out},
		ErrorOutputPaths: []string{out},
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
