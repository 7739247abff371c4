// Package run drives one full decision-and-submission pass over a market
// snapshot.
package run

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kickbid/internal/bid"
	"kickbid/internal/domain"
	"kickbid/internal/selector"
)

// BidEvaluator computes a bid price or skip reason for a listing given the
// currently remaining budget.
type BidEvaluator interface {
	Evaluate(l domain.Listing, budget int64) (int64, domain.SkipReason)
}

// OfferSubmitter places one bid and reports its outcome.
type OfferSubmitter interface {
	Submit(ctx context.Context, listingID string, price int64) domain.Offer
}

// Orchestrator sequences selection, pricing, budget accounting, and
// submission for one pass over a snapshot. Candidates are processed strictly
// in the selector's order; budget commits and releases happen in that same
// order because later candidates' eligibility depends on earlier outcomes.
type Orchestrator struct {
	selector  *selector.Selector
	calc      BidEvaluator
	submitter OfferSubmitter
	reserve   int64
	dryRun    bool
	logger    *slog.Logger
}

// New creates an Orchestrator. reserve is the cash buffer the budget guard
// protects; dryRun skips submission entirely and only records decisions.
func New(sel *selector.Selector, calc BidEvaluator, submitter OfferSubmitter, reserve int64, dryRun bool, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		selector:  sel,
		calc:      calc,
		submitter: submitter,
		reserve:   reserve,
		dryRun:    dryRun,
		logger:    logger.With(slog.String("component", "orchestrator")),
	}
}

// Run executes one full pass over the snapshot and returns the per-candidate
// report. Per-candidate failures (rejections, unresolved endpoints) are
// recorded and processing continues; the only error returned is context
// cancellation.
func (o *Orchestrator) Run(ctx context.Context, snap domain.MarketSnapshot) (domain.RunReport, error) {
	started := time.Now().UTC()
	report := domain.RunReport{
		RunID:          uuid.New().String(),
		LeagueID:       snap.LeagueID,
		DryRun:         o.dryRun,
		StartedAt:      started,
		StartingBudget: snap.Budget,
		ListingsSeen:   len(snap.Listings),
	}

	guard := bid.NewGuard(snap.Budget, o.reserve)
	candidates := o.selector.Select(snap.Listings)

	o.logger.Info("run started",
		slog.String("run_id", report.RunID),
		slog.String("league", snap.LeagueID),
		slog.Bool("dry_run", o.dryRun),
		slog.Int("listings", len(snap.Listings)),
		slog.Int("candidates", len(candidates)),
		slog.Int64("budget", snap.Budget),
	)

	for _, l := range candidates {
		if err := ctx.Err(); err != nil {
			report.RemainingBudget = guard.Remaining()
			report.CommittedTotal = guard.Committed()
			report.Duration = time.Since(started)
			return report, err
		}
		report.Candidates = append(report.Candidates, o.processCandidate(ctx, l, guard))
	}

	report.RemainingBudget = guard.Remaining()
	report.CommittedTotal = guard.Committed()
	report.Duration = time.Since(started)

	o.logger.Info("run completed",
		slog.String("run_id", report.RunID),
		slog.Int("candidates", len(report.Candidates)),
		slog.Int("accepted", report.Accepted()),
		slog.Int64("remaining_budget", report.RemainingBudget),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

// processCandidate walks one listing through the candidate state machine:
// Evaluated -> Skipped, or Evaluated -> Reserved -> Accepted | Released.
func (o *Orchestrator) processCandidate(ctx context.Context, l domain.Listing, guard *bid.Guard) domain.CandidateReport {
	cr := domain.CandidateReport{
		ListingID:        l.ID,
		PlayerName:       l.DisplayName(),
		MarketValue:      l.MarketValue,
		TrendFlag:        l.TrendFlag,
		SecondsRemaining: l.SecondsRemaining,
		State:            domain.CandidateEvaluated,
	}

	price, skip := o.calc.Evaluate(l, guard.Remaining())
	if skip != "" {
		cr.State = domain.CandidateSkipped
		cr.SkipReason = skip
		o.logger.Debug("candidate skipped",
			slog.String("listing", l.ID),
			slog.String("reason", string(skip)),
		)
		return cr
	}
	cr.BidPrice = price

	if err := guard.Commit(price); err != nil {
		cr.State = domain.CandidateSkipped
		cr.SkipReason = domain.SkipBudgetReserve
		o.logger.Debug("reservation declined",
			slog.String("listing", l.ID),
			slog.Int64("price", price),
			slog.String("error", err.Error()),
		)
		return cr
	}
	cr.State = domain.CandidateReserved

	if o.dryRun {
		// Record the hypothetical decision; the reservation stands so the
		// rest of the pass sees the reduced budget.
		o.logger.Info("dry run: would bid",
			slog.String("listing", l.ID),
			slog.String("player", cr.PlayerName),
			slog.Int64("price", price),
		)
		return cr
	}

	offer := o.submitter.Submit(ctx, l.ID, price)
	cr.Outcome = offer.Outcome
	cr.OutcomeReason = offer.Reason
	cr.Attempts = offer.Attempts

	if offer.Outcome == domain.OfferAccepted {
		cr.State = domain.CandidateAccepted
		return cr
	}

	// Rejected or unresolved: the reservation is returned so a failed bid
	// does not permanently consume budget within this run.
	guard.Release(price)
	cr.State = domain.CandidateReleased
	return cr
}
