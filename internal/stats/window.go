package stats

import (
	"time"

	"expensedash/internal/core"
)

// FilterByPeriod returns the subsequence of expenses inside the window
// ending at now. PeriodAll is the identity and returns the input slice
// unchanged. For narrower windows an expense is kept only when its date is
// strictly after the cutoff; expenses with an absent or unparseable date are
// excluded. now is sampled once by the caller so one computation is
// internally consistent, but results drift between calls as time advances.
func FilterByPeriod(expenses []core.Expense, period core.TimePeriod, now time.Time) []core.Expense {
	cutoff, ok := period.CutoffFrom(now)
	if !ok {
		return expenses
	}

	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.IsEmpty() {
			continue
		}
		if e.Date.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Overview computes the summary-card numbers over an already-filtered list:
// total spent, distinct non-empty categories, and transaction count.
func Overview(expenses []core.Expense) core.Overview {
	var total int64
	cats := make(map[string]struct{})
	for _, e := range expenses {
		total += e.Amount.Cents
		if e.Category != "" {
			cats[e.Category] = struct{}{}
		}
	}
	return core.Overview{
		TotalSpent:   core.Money{Cents: total},
		Categories:   len(cats),
		Transactions: len(expenses),
	}
}
