// Package selector filters and orders market listings into bid-worthy
// candidates.
package selector

import (
	"sort"

	"kickbid/internal/domain"
)

// Config holds the filtering thresholds.
type Config struct {
	AllowedTrendFlags   []int
	MinMarketValue      int64
	MinSecondsRemaining int64
	MaxSecondsRemaining int64
}

// Selector filters listings by market value, trend flag, and expiry window,
// then orders them soonest-expiring first.
type Selector struct {
	allowed    map[int]bool
	minValue   int64
	minSeconds int64
	maxSeconds int64
}

// New creates a Selector from the given config.
func New(cfg Config) *Selector {
	allowed := make(map[int]bool, len(cfg.AllowedTrendFlags))
	for _, f := range cfg.AllowedTrendFlags {
		allowed[f] = true
	}
	return &Selector{
		allowed:    allowed,
		minValue:   cfg.MinMarketValue,
		minSeconds: cfg.MinSecondsRemaining,
		maxSeconds: cfg.MaxSecondsRemaining,
	}
}

// Select returns the listings eligible for bid evaluation, ordered ascending
// by seconds remaining. Soonest-expiring first matters: when budget runs out
// mid-run, the listings about to disappear were considered before ones that
// will still be around next run. Ties keep their input order (stable sort).
// An empty input yields an empty output.
func (s *Selector) Select(listings []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if !s.eligible(l) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SecondsRemaining < out[j].SecondsRemaining
	})
	return out
}

// eligible applies the filtering rules; all must hold.
func (s *Selector) eligible(l domain.Listing) bool {
	// Unknown market value means do not bid, regardless of the configured
	// minimum.
	if l.MarketValue <= 0 {
		return false
	}
	if l.MarketValue < s.minValue {
		return false
	}
	if !s.allowed[l.TrendFlag] {
		return false
	}
	// A negative remaining time always fails: the auction is already over.
	if l.SecondsRemaining < 0 {
		return false
	}
	if l.SecondsRemaining < s.minSeconds || l.SecondsRemaining > s.maxSeconds {
		return false
	}
	return true
}
