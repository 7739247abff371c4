package bid

import (
	"fmt"

	"kickbid/internal/domain"
)

// Guard tracks the remaining spendable budget across a single run. It is a
// purely in-process accounting device: it has no authority over the real
// account balance, which is refreshed from the next snapshot fetch. The run
// owns the Guard exclusively, so there is no locking; commits and releases
// happen strictly in candidate order.
type Guard struct {
	remaining int64
	reserve   int64
	committed int64
}

// NewGuard creates a Guard over the given starting budget with a minimum
// reserve that every commit must leave untouched.
func NewGuard(budget, reserve int64) *Guard {
	return &Guard{remaining: budget, reserve: reserve}
}

// Remaining returns the budget still spendable (before the reserve).
func (g *Guard) Remaining() int64 {
	return g.remaining
}

// Committed returns the sum of all currently committed amounts.
func (g *Guard) Committed() int64 {
	return g.committed
}

// Commit reserves amount from the remaining budget. It fails with
// domain.ErrBudgetExceeded when the commit would eat into the reserve; on
// success the remaining budget is decremented.
func (g *Guard) Commit(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("budget: commit of %d: amount must be positive", amount)
	}
	if amount > g.remaining-g.reserve {
		return fmt.Errorf("budget: commit of %d leaves less than reserve %d (remaining %d): %w",
			amount, g.reserve, g.remaining, domain.ErrBudgetExceeded)
	}
	g.remaining -= amount
	g.committed += amount
	return nil
}

// Release returns a previously committed amount to the remaining budget.
// Used when a reserved bid is rejected or unresolved, so a failed bid does
// not permanently consume budget within the run.
func (g *Guard) Release(amount int64) {
	if amount <= 0 {
		return
	}
	if amount > g.committed {
		amount = g.committed
	}
	g.remaining += amount
	g.committed -= amount
}
