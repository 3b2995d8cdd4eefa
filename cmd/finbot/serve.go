package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"finbot/internal/cache"
	"finbot/internal/core"
	apphttp "finbot/internal/http"
	"finbot/internal/log"
	"finbot/internal/scheduler"
)

const (
	plotCacheSize      = 32
	cacheSweepInterval = time.Minute
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the web dashboard",
		RunE:  a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := a.cfg
	logger := a.logger

	l, res, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer a.closeBackend(res)

	// A corrupt document must not be overwritten by autosave.
	if err := l.Load(ctx); err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		logger.Info("No saved data found, starting fresh", log.FieldLocation, l.Location())
	}

	var saver *scheduler.Autosaver
	if cfg.AutosaveCron != "" {
		if saver, err = scheduler.NewAutosaver(cfg.AutosaveCron, l, logger); err != nil {
			return err
		}
	}

	plots := cache.NewLRUCache[string](plotCacheSize, cfg.ChartCacheTTL)
	caches := cache.NewManager(logger)
	caches.Register(plots)

	srv := apphttp.NewServer(cfg.Addr(), l,
		apphttp.WithLogger(logger),
		apphttp.WithPlotCache(plots),
		apphttp.WithRateLimit(cfg.RateLimitPerMinute))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	caches.Start(gctx, cacheSweepInterval)

	g.Go(func() error {
		logger.Info("Starting finbot server",
			"addr", cfg.Addr(),
			"backend", cfg.DataBackend,
			log.FieldLocation, l.Location())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if saver != nil {
		g.Go(func() error { return saver.Run(gctx) })
	}

	err = g.Wait()
	caches.Wait()

	persistCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if perr := l.Persist(persistCtx); perr != nil {
		logger.Error("Failed to save data on shutdown", log.FieldError, perr)
		return errors.Join(err, perr)
	}
	logger.Info("Server stopped gracefully", log.FieldLocation, l.Location())
	return err
}
