// Package app wires together the wallet core's dependencies (chain adapters,
// stores, caches, blob storage, notifications) and dispatches CLI subcommands
// against them.
package app

import (
	"context"
	"log/slog"

	"github.com/nocdem/dna-messenger/walletcore/internal/config"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Wire constructs all dependencies and registers their teardown with the
// App's close list. The caller invokes a returned Dependencies against one of
// the command methods, then calls Close when done.
func (a *App) Wire(ctx context.Context) (*Dependencies, error) {
	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, cleanup)
	return deps, nil
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
