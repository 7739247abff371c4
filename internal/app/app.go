// Package app provides the top-level application lifecycle for the kickbid
// bot. It wires the platform client, decision pipeline, and notifiers, and
// dispatches to the configured operating mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kickbid/internal/config"
)

// App is the root application object.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, selects the operating mode, and executes one
// pass. The bot is single-shot: scheduling repeated runs is the caller's
// concern (cron, CI workflow), and the caller must ensure at most one run
// executes at a time.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.Bool("dry_run", a.cfg.DryRun),
		slog.String("league", a.cfg.Kickbase.LeagueID),
	)
	a.logger.DebugContext(ctx, "active configuration",
		slog.Any("config", config.RedactedConfig(a.cfg)))

	deps := Wire(a.cfg, a.logger)

	mode := strings.ToLower(a.cfg.Mode)
	switch mode {
	case "login":
		return a.LoginMode(ctx, deps)
	case "monitor":
		return a.MonitorMode(ctx, deps)
	case "bid":
		return a.BidMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}
