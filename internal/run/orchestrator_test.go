package run

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"kickbid/internal/bid"
	"kickbid/internal/domain"
	"kickbid/internal/selector"
)

// stubSubmitter returns a scripted outcome per listing ID and records the
// order of submissions.
type stubSubmitter struct {
	outcomes  map[string]domain.OfferOutcome
	submitted []string
}

func (s *stubSubmitter) Submit(_ context.Context, listingID string, price int64) domain.Offer {
	s.submitted = append(s.submitted, listingID)
	outcome, ok := s.outcomes[listingID]
	if !ok {
		outcome = domain.OfferAccepted
	}
	return domain.Offer{
		ID:        "offer-" + listingID,
		ListingID: listingID,
		Price:     price,
		Outcome:   outcome,
		Attempts:  1,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSelector() *selector.Selector {
	return selector.New(selector.Config{
		AllowedTrendFlags:   []int{1, 2},
		MaxSecondsRemaining: 86_400,
	})
}

func testCalculator() *bid.Calculator {
	return bid.NewCalculator(bid.CalculatorConfig{
		Strategy:           bid.StrategyFlatMarkup,
		Increment:          2,
		MaxOverpayFraction: 0.10,
		CashBuffer:         500_000,
	})
}

func newOrchestrator(sub OfferSubmitter, dryRun bool) *Orchestrator {
	return New(testSelector(), testCalculator(), sub, 500_000, dryRun, testLogger())
}

func snapshot(budget int64, listings ...domain.Listing) domain.MarketSnapshot {
	return domain.MarketSnapshot{LeagueID: "league-1", Budget: budget, Listings: listings}
}

func TestRun_AcceptedBidConsumesBudget(t *testing.T) {
	sub := &stubSubmitter{}
	o := newOrchestrator(sub, false)

	report, err := o.Run(context.Background(), snapshot(2_000_000,
		domain.Listing{ID: "a", LastName: "Musiala", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 1800},
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(report.Candidates))
	}
	c := report.Candidates[0]
	if c.State != domain.CandidateAccepted {
		t.Errorf("state = %s, want accepted", c.State)
	}
	if c.BidPrice != 1_000_002 {
		t.Errorf("bid = %d, want 1_000_002", c.BidPrice)
	}
	if report.RemainingBudget != 2_000_000-1_000_002 {
		t.Errorf("remaining = %d, want %d", report.RemainingBudget, 2_000_000-1_000_002)
	}
	if report.CommittedTotal != 1_000_002 {
		t.Errorf("committed = %d, want 1_000_002", report.CommittedTotal)
	}
}

func TestRun_RejectedBidReleasesBudget(t *testing.T) {
	sub := &stubSubmitter{outcomes: map[string]domain.OfferOutcome{"a": domain.OfferRejected}}
	o := newOrchestrator(sub, false)

	report, err := o.Run(context.Background(), snapshot(2_000_000,
		domain.Listing{ID: "a", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 1800},
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Candidates[0].State != domain.CandidateReleased {
		t.Errorf("state = %s, want released", report.Candidates[0].State)
	}
	if report.RemainingBudget != 2_000_000 {
		t.Errorf("remaining = %d, want full budget back", report.RemainingBudget)
	}
	if report.CommittedTotal != 0 {
		t.Errorf("committed = %d, want 0", report.CommittedTotal)
	}
}

func TestRun_ReleasedBudgetFundsLaterCandidate(t *testing.T) {
	// First candidate's offer is rejected; the released reservation must fund
	// the second candidate within the same run.
	sub := &stubSubmitter{outcomes: map[string]domain.OfferOutcome{
		"soon": domain.OfferUnresolved,
		"late": domain.OfferAccepted,
	}}
	o := newOrchestrator(sub, false)

	report, err := o.Run(context.Background(), snapshot(2_000_000,
		domain.Listing{ID: "late", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 3600},
		domain.Listing{ID: "soon", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 60},
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Soonest-expiring first.
	if got := sub.submitted; len(got) != 2 || got[0] != "soon" || got[1] != "late" {
		t.Fatalf("submission order = %v, want [soon late]", got)
	}
	if report.Candidates[0].State != domain.CandidateReleased {
		t.Errorf("first candidate state = %s, want released", report.Candidates[0].State)
	}
	if report.Candidates[1].State != domain.CandidateAccepted {
		t.Errorf("second candidate state = %s, want accepted", report.Candidates[1].State)
	}
}

func TestRun_BudgetExhaustionSkipsLaterCandidates(t *testing.T) {
	// Both candidates want ~1M, but after the first confirmed bid the buffer
	// leaves no headroom for the second.
	sub := &stubSubmitter{}
	o := newOrchestrator(sub, false)

	report, err := o.Run(context.Background(), snapshot(2_000_000,
		domain.Listing{ID: "a", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 60},
		domain.Listing{ID: "b", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 3600},
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Candidates[0].State != domain.CandidateAccepted {
		t.Fatalf("first candidate state = %s, want accepted", report.Candidates[0].State)
	}
	second := report.Candidates[1]
	if second.State != domain.CandidateSkipped {
		t.Fatalf("second candidate state = %s, want skipped", second.State)
	}
	if second.SkipReason != domain.SkipCashBuffer && second.SkipReason != domain.SkipBudgetReserve {
		t.Errorf("skip reason = %q", second.SkipReason)
	}
	if report.RemainingBudget < 500_000 {
		t.Errorf("remaining %d dropped below the reserve", report.RemainingBudget)
	}
	if len(sub.submitted) != 1 {
		t.Errorf("submissions = %d, want 1", len(sub.submitted))
	}
}

func TestRun_DryRunNeverSubmits(t *testing.T) {
	sub := &stubSubmitter{}
	o := newOrchestrator(sub, true)

	report, err := o.Run(context.Background(), snapshot(2_000_000,
		domain.Listing{ID: "a", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 1800},
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sub.submitted) != 0 {
		t.Fatalf("dry run submitted %d offers", len(sub.submitted))
	}
	c := report.Candidates[0]
	if c.State != domain.CandidateReserved {
		t.Errorf("state = %s, want reserved (hypothetical decision recorded)", c.State)
	}
	if c.BidPrice != 1_000_002 {
		t.Errorf("bid = %d, want 1_000_002", c.BidPrice)
	}
	// The hypothetical reservation still reduces the simulated budget.
	if report.RemainingBudget != 2_000_000-1_000_002 {
		t.Errorf("remaining = %d, want %d", report.RemainingBudget, 2_000_000-1_000_002)
	}
}

func TestRun_OneOfferPerListing(t *testing.T) {
	sub := &stubSubmitter{}
	o := newOrchestrator(sub, false)

	_, err := o.Run(context.Background(), snapshot(200_000_000,
		domain.Listing{ID: "a", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 60},
		domain.Listing{ID: "b", MarketValue: 1_000_000, TrendFlag: 1, SecondsRemaining: 90},
		domain.Listing{ID: "c", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 120},
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	seen := make(map[string]int)
	for _, id := range sub.submitted {
		seen[id]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("listing %s received %d offers, want 1", id, n)
		}
	}
}

func TestRun_SkippedListingsReported(t *testing.T) {
	sub := &stubSubmitter{}
	o := newOrchestrator(sub, false)

	report, err := o.Run(context.Background(), snapshot(100_000,
		domain.Listing{ID: "a", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 60},
	))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	c := report.Candidates[0]
	if c.State != domain.CandidateSkipped {
		t.Fatalf("state = %s, want skipped", c.State)
	}
	if c.SkipReason == "" {
		t.Error("expected a skip reason")
	}
	if len(sub.submitted) != 0 {
		t.Errorf("submissions = %d, want 0", len(sub.submitted))
	}
}

func TestRun_CancelledContext(t *testing.T) {
	sub := &stubSubmitter{}
	o := newOrchestrator(sub, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, snapshot(2_000_000,
		domain.Listing{ID: "a", MarketValue: 1_000_000, TrendFlag: 2, SecondsRemaining: 60},
	))
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(sub.submitted) != 0 {
		t.Errorf("submissions after cancel = %d, want 0", len(sub.submitted))
	}
}

func TestRun_EmptySnapshot(t *testing.T) {
	sub := &stubSubmitter{}
	o := newOrchestrator(sub, false)

	report, err := o.Run(context.Background(), snapshot(2_000_000))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Candidates) != 0 {
		t.Errorf("candidates = %d, want 0", len(report.Candidates))
	}
	if report.RemainingBudget != 2_000_000 {
		t.Errorf("remaining = %d, want untouched budget", report.RemainingBudget)
	}
}
