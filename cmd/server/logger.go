package main

import (
	"github.com/septivank/energy-insights/internal/config"
	"github.com/septivank/energy-insights/internal/logging"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName)
}
