// Package bid computes bid prices under overpay and budget constraints, and
// tracks the remaining spendable budget across one run.
package bid

import (
	"math"

	"kickbid/internal/domain"
)

// Strategy selects how the raw bid price is derived before caps apply.
type Strategy string

const (
	// StrategyFlatMarkup bids marketValue plus a small markup.
	StrategyFlatMarkup Strategy = "flat_markup"
	// StrategyTrendROI only bids on rising listings whose trend-to-value
	// ratio clears a threshold.
	StrategyTrendROI Strategy = "trend_roi"
)

// CalculatorConfig holds the pricing parameters.
type CalculatorConfig struct {
	Strategy Strategy
	// Increment is the flat_markup markup. 0 derives it from the trend flag
	// as max(1, flag); the flag's magnitude then scales the markup.
	Increment int64
	// MinROI gates trend_roi eligibility: trendFlag / marketValue must reach
	// this threshold.
	MinROI float64
	// MaxOverpayFraction caps every bid at floor(marketValue * (1 + f)).
	MaxOverpayFraction float64
	// CashBuffer is the minimum balance that must remain after the bid.
	CashBuffer int64
}

// Calculator computes, per listing, a bid price or a skip reason.
type Calculator struct {
	cfg CalculatorConfig
}

// NewCalculator creates a Calculator with the given config.
func NewCalculator(cfg CalculatorConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Evaluate returns the bid price for a listing given the currently remaining
// budget, or an empty price with a non-empty skip reason. Guarantees:
// marketValue <= bid <= floor(marketValue * (1 + maxOverpayFraction)), and
// budget - bid >= cashBuffer. All failures here are normal "no bid" outcomes,
// never errors.
func (c *Calculator) Evaluate(l domain.Listing, budget int64) (int64, domain.SkipReason) {
	if l.MarketValue <= 0 {
		return 0, domain.SkipNoMarketValue
	}

	var bid int64
	switch c.cfg.Strategy {
	case StrategyTrendROI:
		if l.TrendFlag <= 0 {
			return 0, domain.SkipTrendNotRising
		}
		roi := float64(l.TrendFlag) / float64(l.MarketValue)
		if roi < c.cfg.MinROI {
			return 0, domain.SkipROIBelowMin
		}
		bid = l.MarketValue + trendComponent(l.TrendFlag)
	default: // StrategyFlatMarkup
		inc := c.cfg.Increment
		if inc <= 0 {
			inc = trendComponent(l.TrendFlag)
		}
		bid = l.MarketValue + inc
	}

	// Overpay cap. The fraction is applied in floating point and the result
	// truncated via floor, never rounded up, so rounding cannot exceed the cap.
	limit := int64(math.Floor(float64(l.MarketValue) * (1 + c.cfg.MaxOverpayFraction)))
	if bid > limit {
		bid = limit
	}

	// Floor: never bid below current market value.
	if bid < l.MarketValue {
		bid = l.MarketValue
	}

	// Cash-buffer check.
	if budget-bid < c.cfg.CashBuffer {
		return 0, domain.SkipCashBuffer
	}

	// Solvency check.
	if bid > budget {
		return 0, domain.SkipInsolvent
	}

	return bid, ""
}

// trendComponent maps a trend flag to a markup in currency units.
func trendComponent(flag int) int64 {
	if flag < 1 {
		return 1
	}
	return int64(flag)
}
