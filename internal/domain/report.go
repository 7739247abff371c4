package domain

import (
	"fmt"
	"strings"
	"time"
)

// CandidateReport is the per-listing outcome line of a run.
type CandidateReport struct {
	ListingID        string
	PlayerName       string
	MarketValue      int64
	TrendFlag        int
	SecondsRemaining int64
	State            CandidateState
	BidPrice         int64
	SkipReason       SkipReason
	Outcome          OfferOutcome
	OutcomeReason    string
	Attempts         int
}

// RunReport is the result of one full pass over a market snapshot.
type RunReport struct {
	RunID           string
	LeagueID        string
	DryRun          bool
	StartedAt       time.Time
	Duration        time.Duration
	StartingBudget  int64
	RemainingBudget int64
	CommittedTotal  int64
	// ListingsSeen is the snapshot size before candidate filtering.
	ListingsSeen int
	Candidates   []CandidateReport
}

// Accepted returns the number of candidates whose offers were confirmed.
func (r RunReport) Accepted() int {
	n := 0
	for _, c := range r.Candidates {
		if c.State == CandidateAccepted {
			n++
		}
	}
	return n
}

// Summary renders a compact multi-line text summary for logs and notifiers.
func (r RunReport) Summary() string {
	var b strings.Builder
	mode := "live"
	if r.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(&b, "run %s league=%s mode=%s listings=%d candidates=%d accepted=%d\n",
		r.RunID, r.LeagueID, mode, r.ListingsSeen, len(r.Candidates), r.Accepted())
	fmt.Fprintf(&b, "budget %d -> %d (committed %d)\n",
		r.StartingBudget, r.RemainingBudget, r.CommittedTotal)
	for _, c := range r.Candidates {
		switch c.State {
		case CandidateSkipped:
			fmt.Fprintf(&b, "  skip %s (%s): %s\n", c.PlayerName, c.ListingID, c.SkipReason)
		case CandidateReserved:
			fmt.Fprintf(&b, "  plan %s (%s): bid %d\n", c.PlayerName, c.ListingID, c.BidPrice)
		case CandidateAccepted:
			fmt.Fprintf(&b, "  bid  %s (%s): %d accepted after %d attempt(s)\n",
				c.PlayerName, c.ListingID, c.BidPrice, c.Attempts)
		case CandidateReleased:
			fmt.Fprintf(&b, "  bid  %s (%s): %d %s (%s), budget released\n",
				c.PlayerName, c.ListingID, c.BidPrice, c.Outcome, c.OutcomeReason)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
