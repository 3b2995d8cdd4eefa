package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"finbot/internal/amqp"
	"finbot/internal/cache"
	gsheet "finbot/internal/sheets/google"
	"finbot/internal/worker"
)

func (a *app) syncWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-worker",
		Short: "Mirror recorded expenses from AMQP into Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is required for the sync worker")
			}
			if err := a.cfg.ValidateSheets(); err != nil {
				return err
			}

			sheetsClient, err := gsheet.NewFromEnv(ctx, a.cfg.GoogleSpreadsheetID, a.cfg.GoogleSheetName, a.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize Google Sheets client: %w", err)
			}

			amqpClient, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
			if err != nil {
				return fmt.Errorf("failed to initialize AMQP client: %w", err)
			}
			defer amqpClient.Close()

			w := worker.NewSyncWorker(sheetsClient, a.logger)
			caches := cache.NewManager(a.logger)
			caches.Register(w.Seen())
			caches.Start(ctx, cacheSweepInterval)
			defer caches.Wait()

			return w.Run(ctx, amqpClient)
		},
	}
}
