// Package stats computes the derived views behind the dashboard: the
// category breakdown, the time-window filter and the summary cards. All
// functions are pure reads over the mirrored expense list and are recomputed
// in full on demand; nothing here is incremental.
package stats

import (
	"expensedash/internal/core"
	"expensedash/internal/palette"
)

// ColorSource assigns a stable display color to a category name.
type ColorSource interface {
	Pick(name string) string
}

// Aggregator groups expenses by category and sums their amounts.
type Aggregator struct {
	colors ColorSource
}

func NewAggregator(colors ColorSource) *Aggregator {
	return &Aggregator{colors: colors}
}

// Summarize scans the list once and returns the category breakdown: the
// synthetic "All Categories" total first, then one entry per distinct
// non-empty category in first-seen order. Records without a category are
// excluded from grouping. Category names are case-sensitive: "Food" and
// "food" are distinct buckets.
func (a *Aggregator) Summarize(expenses []core.Expense) []core.CategorySummary {
	sums := make(map[string]int64, len(expenses))
	var order []string

	for _, e := range expenses {
		if e.Category == "" {
			continue
		}
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}

	var total int64
	for _, cents := range sums {
		total += cents
	}

	out := make([]core.CategorySummary, 0, len(order)+1)
	out = append(out, core.CategorySummary{
		Name:   core.AllCategories,
		Amount: core.Money{Cents: total},
		Color:  palette.Neutral,
	})
	for _, name := range order {
		out = append(out, core.CategorySummary{
			Name:   name,
			Amount: core.Money{Cents: sums[name]},
			Color:  a.colors.Pick(name),
		})
	}
	return out
}

// DistributionRow is a breakdown entry with its share of the grand total,
// ready for a bar view.
type DistributionRow struct {
	core.CategorySummary
	Percent float64 `json:"percent"`
}

// Distribution drops the sentinel entry and annotates each category with its
// percentage of the total, rounded to one decimal place.
func Distribution(summaries []core.CategorySummary) []DistributionRow {
	var total int64
	for _, s := range summaries {
		if s.Name == core.AllCategories {
			total = s.Amount.Cents
			break
		}
	}

	rows := make([]DistributionRow, 0, len(summaries))
	for _, s := range summaries {
		if s.Name == core.AllCategories {
			continue
		}
		var pct float64
		if total > 0 {
			pct = float64(s.Amount.Cents) * 100 / float64(total)
			pct = float64(int64(pct*10+0.5)) / 10
		}
		rows = append(rows, DistributionRow{CategorySummary: s, Percent: pct})
	}
	return rows
}
