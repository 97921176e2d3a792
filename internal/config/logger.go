package config

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the application logger. Development mode gets the
// human-readable console encoder.
func NewLogger(lc fx.Lifecycle, cfg *Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if cfg.Production() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}
