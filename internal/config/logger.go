package config

import (
	"go.uber.org/zap"
)

func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
