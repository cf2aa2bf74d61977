package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the service logger: JSON in production, console output in development.
func NewLogger(cfg Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("service", "windmanager")), nil
}
