// Package export renders the expense collection as a downloadable report.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"expensedash/internal/core"
)

// ErrNoExpenses is returned when there is nothing to export. Callers
// surface it as a notice rather than producing an empty file.
var ErrNoExpenses = errors.New("no expenses to export")

var csvHeader = []string{"Description", "Category", "Date", "Amount"}

// WriteCSV writes the report with one row per expense. Dates render in the
// long human form and amounts as plain decimals, matching what the
// dashboard shows on screen.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return ErrNoExpenses
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		row := []string{e.Description, e.Category, e.Date.Human(), e.Amount.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// Filename names the report after the export date.
func Filename(now time.Time) string {
	return fmt.Sprintf("expenses-%s.csv", now.Format("2006-01-02"))
}
