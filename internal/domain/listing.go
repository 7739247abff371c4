package domain

import (
	"strings"
	"time"
)

// Listing is one player on the transfer market at snapshot time. Listings are
// built fresh from each fetched snapshot, never mutated, and discarded after
// one run.
type Listing struct {
	ID          string
	FirstName   string
	LastName    string
	MarketValue int64 // currency units; 0 means unknown, never bid
	TrendFlag   int   // 0 = flat/falling, positive = rising
	// SecondsRemaining is the time until the auction closes. Negative means
	// the auction is already over.
	SecondsRemaining int64
}

// DisplayName returns a human-readable label for the listing. It is only used
// for logs and reports, never for matching.
func (l Listing) DisplayName() string {
	name := strings.TrimSpace(l.FirstName + " " + l.LastName)
	if name == "" {
		return l.ID
	}
	return name
}

// MarketSnapshot is an immutable view of a league's transfer market plus the
// team's spendable budget, as of one point in time. The budget here is the
// authoritative upstream figure at fetch time; within a run it is only
// tracked in-memory by the budget guard.
type MarketSnapshot struct {
	LeagueID  string
	Listings  []Listing
	Budget    int64
	FetchedAt time.Time
}
