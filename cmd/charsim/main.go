// Package main is the entry point for charsim, the headless character
// simulation harness.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/config"
	"github.com/Faultbox/kinema/internal/logger"
	"github.com/Faultbox/kinema/internal/sim"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Kinema charsim ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	s, err := sim.New(cfg)
	if err != nil {
		logger.Error("failed to build simulation", zap.Error(err))
		os.Exit(1)
	}
	defer s.Close()

	// Hot-reload character tuning when an explicit config file is in use
	if path := config.ConfigPath(); path != "" {
		stop, err := config.Watch(path,
			func(cfg *config.Config) {
				logger.Info("config file changed", zap.String("path", path))
				s.UpdateConfig(cfg)
			},
			func(err error) {
				logger.Warn("config reload failed", zap.Error(err))
			})
		if err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		} else {
			defer stop()
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("charsim closed normally")
}
