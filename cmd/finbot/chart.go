package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finbot/internal/analytics"
	"finbot/internal/chart"
	"finbot/internal/core"
)

func (a *app) chartCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render spending by category to a PNG file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			l, res, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer a.closeBackend(res)
			if err := l.Load(ctx); err != nil && !errors.Is(err, core.ErrNotFound) {
				return err
			}

			snap := l.Snapshot()
			if len(snap.Expenses) == 0 {
				return errors.New("no expenses to plot")
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := chart.PNG(f, analytics.SpendingByCategory(snap)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "spending.png", "output PNG path")
	return cmd
}
