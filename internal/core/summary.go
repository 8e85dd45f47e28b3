package core

// AllCategories is the name of the synthetic aggregate entry prepended to
// every category breakdown.
const AllCategories = "All Categories"

// CategorySummary is one row of the spending distribution: a category and
// the sum of its expense amounts, plus the stable display color assigned to
// the category name.
type CategorySummary struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
	Color  string `json:"color"`
}

// Overview backs the dashboard summary cards, computed over the
// period-filtered expense list.
type Overview struct {
	TotalSpent   Money `json:"total_spent"`
	Categories   int   `json:"categories"`
	Transactions int   `json:"transactions"`
}
