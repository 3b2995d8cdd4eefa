package main

import (
	"github.com/spf13/cobra"

	"finbot/internal/repl"
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive prompt (default)",
		RunE:  a.runREPL,
	}
}

func (a *app) runREPL(cmd *cobra.Command, _ []string) error {
	l, res, err := a.openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer a.closeBackend(res)

	r := repl.New(l, cmd.InOrStdin(), cmd.OutOrStdout(), repl.WithLogger(a.logger))
	return r.Run(cmd.Context())
}
