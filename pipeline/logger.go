// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger from cfg: "json" uses the production preset,
// "console" the development one.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("pipeline: logging level: %w", err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	return zc.Build()
}
