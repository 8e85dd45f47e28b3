package sheets

import (
	"context"

	"expensedash/internal/core"
)

// Ports for outbound mirror adapters.
type (
	// ExpenseWriter appends one expense row to the mirror and returns a
	// reference to where it landed.
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}
)
