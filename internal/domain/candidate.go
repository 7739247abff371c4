package domain

// CandidateState tracks a candidate through one run.
//
// Evaluated -> Skipped                        (calculator or guard declined)
// Evaluated -> Reserved -> Accepted           (offer confirmed, reservation stands)
// Evaluated -> Reserved -> Released           (offer rejected/unresolved, budget returned)
//
// In dry-run mode a candidate ends in Reserved: the reservation stands so the
// remaining hypothetical decisions see the reduced budget, but no offer goes
// out.
type CandidateState string

const (
	CandidateEvaluated CandidateState = "evaluated"
	CandidateSkipped   CandidateState = "skipped"
	CandidateReserved  CandidateState = "reserved"
	CandidateAccepted  CandidateState = "accepted"
	CandidateReleased  CandidateState = "released"
)

// SkipReason explains why a listing produced no bid. An empty reason means
// the listing got a bid price.
type SkipReason string

const (
	SkipNoMarketValue  SkipReason = "no market value"
	SkipTrendNotRising SkipReason = "trend not rising"
	SkipROIBelowMin    SkipReason = "roi below threshold"
	SkipCashBuffer     SkipReason = "cash buffer breached"
	SkipInsolvent      SkipReason = "bid exceeds budget"
	// SkipBudgetReserve is set when the budget guard declines the
	// reservation, i.e. earlier confirmed bids already consumed the headroom.
	SkipBudgetReserve SkipReason = "budget reserve"
)
