package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monthly is the dashboard summary for the current calendar month.
type Monthly struct {
	Budget    decimal.Decimal `json:"monthlyBudget"`
	Spent     decimal.Decimal `json:"monthlySpend"`
	Remaining decimal.Decimal `json:"monthlyRemaining"`
}

// OverBudget reports whether spending has passed the budget.
func (m Monthly) OverBudget() bool {
	return m.Remaining.IsNegative()
}

// MonthlyStats sums debit transactions created within now's calendar month.
// Remaining may go negative. A nil user means a zero budget.
func MonthlyStats(txns []Transaction, user *User, now time.Time) Monthly {
	budget := decimal.Zero
	if user != nil {
		budget = user.Settings.MonthlyBudget
	}

	start, end := monthBounds(now)
	spent := decimal.Zero
	for _, t := range txns {
		if t.Type != TxnDebit {
			continue
		}
		at := t.CreatedAt.In(now.Location())
		if at.Before(start) || at.After(end) {
			continue
		}
		spent = spent.Add(t.Amount)
	}

	return Monthly{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Sub(spent),
	}
}

// monthBounds returns the first and last instant of now's month.
func monthBounds(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
