package stats

import (
	"testing"

	"expensedash/internal/core"
	"expensedash/internal/palette"
)

func exp(id, category string, cents int64) core.Expense {
	return core.Expense{
		ID:          id,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: "d",
		Date:        core.NewDate(2025, 6, 1),
	}
}

func TestSummarizeSentinelIsSumOfEntries(t *testing.T) {
	agg := NewAggregator(palette.New(nil))
	got := agg.Summarize([]core.Expense{
		exp("1", "Food", 1000),
		exp("2", "Travel", 2500),
		exp("3", "Food", 500),
	})

	if got[0].Name != core.AllCategories {
		t.Fatalf("first entry = %q, want sentinel", got[0].Name)
	}
	var sum int64
	for _, s := range got[1:] {
		sum += s.Amount.Cents
	}
	if got[0].Amount.Cents != sum {
		t.Fatalf("sentinel = %d, entries sum to %d", got[0].Amount.Cents, sum)
	}
	if got[0].Amount.Cents != 4000 {
		t.Fatalf("sentinel = %d, want 4000", got[0].Amount.Cents)
	}
}

func TestSummarizeFirstSeenOrderAndMerging(t *testing.T) {
	agg := NewAggregator(palette.New(nil))
	got := agg.Summarize([]core.Expense{
		exp("1", "Travel", 100),
		exp("2", "Food", 200),
		exp("3", "Travel", 300),
	})

	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[1].Name != "Travel" || got[2].Name != "Food" {
		t.Fatalf("order = [%s %s], want first-seen", got[1].Name, got[2].Name)
	}
	if got[1].Amount.Cents != 400 {
		t.Fatalf("Travel = %d, want merged 400", got[1].Amount.Cents)
	}
}

func TestSummarizeSkipsEmptyCategory(t *testing.T) {
	agg := NewAggregator(palette.New(nil))
	got := agg.Summarize([]core.Expense{
		exp("1", "", 999),
		exp("2", "Food", 100),
	})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want sentinel + Food", len(got))
	}
	if got[0].Amount.Cents != 100 {
		t.Fatalf("sentinel = %d, uncategorized amount must not count", got[0].Amount.Cents)
	}
}

func TestSummarizeDistinctCount(t *testing.T) {
	agg := NewAggregator(palette.New(nil))
	got := agg.Summarize([]core.Expense{
		exp("1", "Food", 1),
		exp("2", "food", 1),
		exp("3", "Food", 1),
		exp("4", "Rent", 1),
	})
	// Case-sensitive: Food, food, Rent.
	if len(got)-1 != 3 {
		t.Fatalf("got %d categories, want 3", len(got)-1)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	agg := NewAggregator(palette.New(nil))
	got := agg.Summarize(nil)
	if len(got) != 1 {
		t.Fatalf("got %d entries, want just the sentinel", len(got))
	}
	if got[0].Name != core.AllCategories || got[0].Amount.Cents != 0 {
		t.Fatalf("sentinel = %+v, want zero total", got[0])
	}
}

func TestSummarizeColorsStable(t *testing.T) {
	colors := palette.New(nil)
	agg := NewAggregator(colors)
	in := []core.Expense{exp("1", "Food", 100), exp("2", "Travel", 200)}

	first := agg.Summarize(in)
	second := agg.Summarize(in)
	for i := range first {
		if first[i].Color != second[i].Color {
			t.Fatalf("%s color changed between runs: %q != %q",
				first[i].Name, first[i].Color, second[i].Color)
		}
	}
	for _, s := range first[1:] {
		if !palette.Contains(s.Color) {
			t.Fatalf("%s color %q not drawn from palette", s.Name, s.Color)
		}
	}
	if palette.Contains(first[0].Color) {
		t.Fatalf("sentinel color %q must be outside the assignable palette", first[0].Color)
	}
}

func TestDistribution(t *testing.T) {
	agg := NewAggregator(palette.New(nil))
	rows := Distribution(agg.Summarize([]core.Expense{
		exp("1", "Food", 7500),
		exp("2", "Travel", 2500),
	}))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Percent != 75.0 || rows[1].Percent != 25.0 {
		t.Fatalf("percents = %v/%v, want 75/25", rows[0].Percent, rows[1].Percent)
	}
	for _, r := range rows {
		if r.Name == core.AllCategories {
			t.Fatalf("sentinel must not appear in distribution rows")
		}
	}
}

func TestDistributionZeroTotal(t *testing.T) {
	rows := Distribution([]core.CategorySummary{
		{Name: core.AllCategories, Amount: core.Money{}},
	})
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want none", len(rows))
	}
}
