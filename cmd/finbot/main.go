package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finbot/internal/backend"
	"finbot/internal/cli"
	"finbot/internal/config"
	"finbot/internal/ledger"
	"finbot/internal/log"
)

var version = "dev"

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	cfgFile string
	envFile string
	cfg     *config.Config
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "finbot",
		Short: "💰 Personal finance assistant",
		Long: `finbot tracks monthly budgets, expenses, income and debts.

Run without a subcommand for the interactive prompt, or "finbot serve"
for the JSON API and dashboard.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runREPL,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (optional)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		a.replCmd(),
		a.serveCmd(),
		a.exportSheetsCmd(),
		a.syncWorkerCmd(),
		a.historyCmd(),
		a.chartCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	cli.LoadEnvFile(a.envFile)
	cfg, err := cli.LoadAndValidateConfig(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg, cmd.ErrOrStderr())
	return nil
}

// openLedger builds a ledger over the configured backend. The caller closes
// the returned result.
func (a *app) openLedger(ctx context.Context) (*ledger.Ledger, *backend.Result, error) {
	res, err := cli.OpenBackend(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	opts := []ledger.Option{ledger.WithLogger(a.logger)}
	if res.Publisher != nil {
		opts = append(opts, ledger.WithPublisher(res.Publisher))
	}
	return ledger.New(res.Store, opts...), res, nil
}

func (a *app) closeBackend(res *backend.Result) {
	if err := res.Close(); err != nil {
		a.logger.Warn("Failed to close backend", log.FieldError, err)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finbot %s\n", version)
		},
	}
}

func main() {
	ctx, stop := cli.SignalContext(context.Background(), log.Discard())
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
