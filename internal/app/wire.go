package app

import (
	"log/slog"
	"strings"

	"kickbid/internal/bid"
	"kickbid/internal/config"
	"kickbid/internal/notify"
	"kickbid/internal/platform/kickbase"
	"kickbid/internal/run"
	"kickbid/internal/selector"
	"kickbid/internal/submit"
)

// Dependencies bundles everything the application modes need to operate.
type Dependencies struct {
	Client       *kickbase.Client
	Orchestrator *run.Orchestrator
	Notifier     *notify.Notifier
}

// Wire constructs the concrete dependency implementations from the given
// configuration. Nothing here holds resources that need explicit teardown;
// the HTTP clients close their idle connections with the process.
func Wire(cfg *config.Config, logger *slog.Logger) *Dependencies {
	client := kickbase.NewClient(
		cfg.Kickbase.BaseURL,
		cfg.Kickbase.UserAgent,
		cfg.Kickbase.RequestTimeout.Duration,
	)

	sel := selector.New(selector.Config{
		AllowedTrendFlags:   cfg.Selector.AllowedTrendFlags,
		MinMarketValue:      cfg.Selector.MinMarketValue,
		MinSecondsRemaining: cfg.Selector.MinSecondsRemaining,
		MaxSecondsRemaining: cfg.Selector.MaxSecondsRemaining,
	})

	calc := bid.NewCalculator(bid.CalculatorConfig{
		Strategy:           bid.Strategy(strings.ToLower(cfg.Bid.Strategy)),
		Increment:          cfg.Bid.Increment,
		MinROI:             cfg.Bid.MinROI,
		MaxOverpayFraction: cfg.Bid.MaxOverpayFraction,
		CashBuffer:         cfg.Bid.CashBuffer,
	})

	templates := make([]submit.EndpointTemplate, 0, len(cfg.Submit.Endpoints))
	for _, ep := range cfg.Submit.Endpoints {
		templates = append(templates, submit.EndpointTemplate{
			Path:       ep.Path,
			Method:     strings.ToUpper(ep.Method),
			PayloadKey: ep.PayloadKey,
		})
	}
	submitter := submit.New(client, cfg.Kickbase.LeagueID, submit.Config{
		Templates:        templates,
		SuccessStatuses:  cfg.Submit.SuccessStatuses,
		MismatchStatuses: cfg.Submit.MismatchStatuses,
	}, logger)

	// Monitor mode never submits, regardless of the dry_run flag.
	dryRun := cfg.DryRun || strings.ToLower(cfg.Mode) == "monitor"
	orchestrator := run.New(sel, calc, submitter, cfg.Bid.CashBuffer, dryRun, logger)

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	notifier := notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return &Dependencies{
		Client:       client,
		Orchestrator: orchestrator,
		Notifier:     notifier,
	}
}
