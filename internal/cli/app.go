// Package cli holds what the cobra commands share: the loaded configuration
// and a context carrying the configured logger.
package cli

import (
	"context"
	"fmt"

	"github.com/bnema/multitab/internal/domain/build"
	"github.com/bnema/multitab/internal/infrastructure/config"
	"github.com/bnema/multitab/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Manager
	BuildInfo build.Info

	ctx context.Context
}

// NewApp loads the configuration from configDir, or the XDG config
// directory when it is empty, and builds the logger from it.
func NewApp(configDir string) (*App, error) {
	var (
		mgr *config.Manager
		err error
	)
	if configDir != "" {
		mgr, err = config.NewManagerAt(configDir)
	} else {
		mgr, err = config.NewManager()
	}
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := mgr.Get()
	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)

	return &App{
		Config: mgr,
		ctx:    logging.WithContext(context.Background(), logger),
	}, nil
}

// Ctx returns the base context with the configured logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
