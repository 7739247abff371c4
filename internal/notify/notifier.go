// Package notify delivers run summaries and fatal-error alerts to the
// configured channels (Telegram, Discord). Notifications can be filtered by
// event type so operators receive only the alerts they care about.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"kickbid/internal/domain"
)

// Event types emitted by the bot.
const (
	EventRunCompleted  = "run_completed"
	EventOfferAccepted = "offer_accepted"
	EventError         = "error"
)

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier dispatches notifications to one or more Senders. It maintains a
// set of allowed event types; events outside the set are dropped. If no
// events were configured, all pass.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that will deliver to the given senders.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// RunCompleted sends the run summary, plus a separate alert per accepted
// offer when that event type is enabled.
func (n *Notifier) RunCompleted(ctx context.Context, report domain.RunReport) {
	title := fmt.Sprintf("kickbid run %s", report.RunID)
	if report.DryRun {
		title += " (dry run)"
	}
	n.notify(ctx, EventRunCompleted, title, report.Summary())

	for _, c := range report.Candidates {
		if c.State != domain.CandidateAccepted {
			continue
		}
		n.notify(ctx, EventOfferAccepted,
			fmt.Sprintf("bid accepted: %s", c.PlayerName),
			fmt.Sprintf("listing %s, price %d (market value %d), %d attempt(s)",
				c.ListingID, c.BidPrice, c.MarketValue, c.Attempts),
		)
	}
}

// RunFailed sends a fatal-error alert.
func (n *Notifier) RunFailed(ctx context.Context, leagueID string, err error) {
	n.notify(ctx, EventError,
		"kickbid run failed",
		fmt.Sprintf("league %s: %v", leagueID, err),
	)
}

// notify filters by event type and fans the message out to every sender
// concurrently. A single sender failure does not prevent delivery to the
// remaining senders; failures are logged, not returned, because
// notifications are best-effort and must never abort a run.
func (n *Notifier) notify(ctx context.Context, event, title, message string) {
	if len(n.senders) == 0 {
		return
	}
	if len(n.events) > 0 && !n.events[event] {
		n.logger.DebugContext(ctx, "event filtered out", slog.String("event", event))
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range n.senders {
		s := s
		g.Go(func() error {
			if err := s.Send(ctx, title, message); err != nil {
				n.logger.ErrorContext(ctx, "sender failed",
					slog.String("sender", s.Name()),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}
