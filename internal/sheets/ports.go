// Package sheets defines the outbound ports for spreadsheet export.
package sheets

import (
	"context"
	"time"

	"finbot/internal/analytics"
)

// ExpenseRow is one logged expense as it appears in the expenses sheet.
type ExpenseRow struct {
	At        time.Time
	Category  string
	Amount    float64
	Remaining float64
}

// Ports for outbound adapters.
type (
	// ExpenseAppender adds one row per logged expense.
	ExpenseAppender interface {
		AppendExpense(ctx context.Context, row ExpenseRow) (rowRef string, err error)
	}

	// SummaryWriter replaces the summary sheet with the current standing.
	SummaryWriter interface {
		WriteSummary(ctx context.Context, rows []analytics.CategorySummary, healthScore int) (rangeRef string, err error)
	}
)
