package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finbot/internal/analytics"
	"finbot/internal/core"
	"finbot/internal/log"
	"finbot/internal/sheets"
	gsheet "finbot/internal/sheets/google"
)

func (a *app) exportSheetsCmd() *cobra.Command {
	var withExpenses bool
	cmd := &cobra.Command{
		Use:   "export-sheets",
		Short: "Write the monthly summary to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.cfg.ValidateSheets(); err != nil {
				return err
			}

			l, res, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer a.closeBackend(res)
			if err := l.Load(ctx); err != nil && !errors.Is(err, core.ErrNotFound) {
				return err
			}

			client, err := gsheet.NewFromEnv(ctx, a.cfg.GoogleSpreadsheetID, a.cfg.GoogleSheetName, a.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize Google Sheets client: %w", err)
			}

			snap := l.Snapshot()
			if withExpenses {
				if err := a.appendExpenses(cmd, client, snap); err != nil {
					return err
				}
			}

			ref, err := client.WriteSummary(ctx, analytics.Summarize(snap), analytics.HealthScore(snap))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Summary exported to %s\n", ref)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withExpenses, "with-expenses", false, "also append every recorded expense")
	return cmd
}

// appendExpenses replays the ledger's expenses into the expenses sheet with
// the running remaining budget per category.
func (a *app) appendExpenses(cmd *cobra.Command, client sheets.ExpenseAppender, snap core.Snapshot) error {
	now := time.Now()
	spent := make(map[string]float64)
	for _, e := range snap.Expenses {
		spent[e.Category] += e.Amount
		row := sheets.ExpenseRow{
			At:        now,
			Category:  e.Category,
			Amount:    e.Amount,
			Remaining: snap.Budgets[e.Category] - spent[e.Category],
		}
		if _, err := client.AppendExpense(cmd.Context(), row); err != nil {
			return err
		}
	}
	a.logger.Info("Expenses exported", log.FieldCount, len(snap.Expenses))
	return nil
}
