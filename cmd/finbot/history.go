package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"finbot/internal/core"
)

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent saves (sqlite backend)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, res, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeBackend(res)

			if res.History == nil {
				return fmt.Errorf("history is only recorded by the sqlite backend (DATA_BACKEND=%s)", a.cfg.DataBackend)
			}
			records, err := res.History.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return errors.New("no saves recorded yet")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSAVED AT\tEXPENSES\tTOTAL SPENT")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
					r.ID,
					r.SavedAt.Local().Format(time.DateTime),
					r.ExpenseCount,
					core.FormatDollars(r.TotalSpent))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of saves to show")
	return cmd
}
