package app

import (
	"context"
	"fmt"
	"log/slog"
)

// LoginMode performs only the login handshake and logs safe diagnostics.
// This mode exists to debug credential problems in CI: it logs whether the
// credentials are set and their lengths, never their contents.
func (a *App) LoginMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "login debug",
		slog.Bool("email_set", a.cfg.Kickbase.Email != ""),
		slog.Int("email_length", len(a.cfg.Kickbase.Email)),
		slog.Bool("password_set", a.cfg.Kickbase.Password != ""),
		slog.Int("password_length", len(a.cfg.Kickbase.Password)),
		slog.Bool("league_id_set", a.cfg.Kickbase.LeagueID != ""),
	)

	if err := deps.Client.Login(ctx, a.cfg.Kickbase.Email, a.cfg.Kickbase.Password); err != nil {
		return fmt.Errorf("app: login: %w", err)
	}

	a.logger.InfoContext(ctx, "login succeeded",
		slog.String("user", deps.Client.UserName()),
		slog.Bool("token_set", deps.Client.Authenticated()),
	)
	return nil
}

// MonitorMode runs the full decision pipeline without ever submitting.
// Wire forces dry-run for this mode.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	return a.pass(ctx, deps)
}

// BidMode runs one full decision-and-submission pass. With dry_run set it
// records decisions without submitting.
func (a *App) BidMode(ctx context.Context, deps *Dependencies) error {
	return a.pass(ctx, deps)
}

// pass logs in, fetches one snapshot, and drives the orchestrator over it.
// Collaborator failures (auth, transport, parsing) are fatal and surface
// unrecovered; per-candidate failures are inside the report.
func (a *App) pass(ctx context.Context, deps *Dependencies) error {
	leagueID := a.cfg.Kickbase.LeagueID

	if err := deps.Client.Login(ctx, a.cfg.Kickbase.Email, a.cfg.Kickbase.Password); err != nil {
		deps.Notifier.RunFailed(ctx, leagueID, err)
		return fmt.Errorf("app: login: %w", err)
	}

	snap, err := deps.Client.FetchSnapshot(ctx, leagueID)
	if err != nil {
		deps.Notifier.RunFailed(ctx, leagueID, err)
		return fmt.Errorf("app: fetch snapshot: %w", err)
	}

	report, err := deps.Orchestrator.Run(ctx, snap)
	if err != nil {
		return fmt.Errorf("app: run: %w", err)
	}

	a.logger.InfoContext(ctx, "run report\n"+report.Summary())
	deps.Notifier.RunCompleted(ctx, report)
	return nil
}
