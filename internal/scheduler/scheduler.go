// Package scheduler persists the ledger on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"finbot/internal/log"
)

// Persister is the part of the ledger the autosaver needs.
type Persister interface {
	Persist(ctx context.Context) error
	Revision() uint64
}

// Autosaver saves the ledger whenever the schedule fires and something
// changed since the previous save.
type Autosaver struct {
	cron     *cron.Cron
	spec     string
	target   Persister
	logger   *log.Logger
	mu       sync.Mutex
	savedRev uint64
	saved    bool
}

// NewAutosaver parses spec (standard five-field cron or a descriptor such as
// "@every 5m") and registers the save job.
func NewAutosaver(spec string, target Persister, logger *log.Logger) (*Autosaver, error) {
	if logger == nil {
		logger = log.Discard()
	}
	a := &Autosaver{
		cron:   cron.New(),
		spec:   spec,
		target: target,
		logger: logger.WithComponent(log.ComponentScheduler),
	}
	if _, err := a.cron.AddFunc(spec, func() { a.SaveNow(context.Background()) }); err != nil {
		return nil, fmt.Errorf("register autosave %q: %w", spec, err)
	}
	return a, nil
}

// Run starts the schedule and blocks until ctx is cancelled. Running jobs are
// allowed to finish before it returns.
func (a *Autosaver) Run(ctx context.Context) error {
	a.cron.Start()
	a.logger.InfoContext(ctx, "Autosave scheduler started", log.FieldSchedule, a.spec)

	<-ctx.Done()

	<-a.cron.Stop().Done()
	a.logger.Info("Autosave scheduler stopped")
	return nil
}

// SaveNow persists if the ledger changed since the last successful save and
// reports whether a save happened.
func (a *Autosaver) SaveNow(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	rev := a.target.Revision()
	if a.saved && rev == a.savedRev {
		return false
	}
	if err := a.target.Persist(ctx); err != nil {
		a.logger.ErrorContext(ctx, "Autosave failed",
			log.FieldOperation, log.OpPersist,
			log.FieldError, err)
		return false
	}
	a.saved = true
	a.savedRev = rev
	a.logger.DebugContext(ctx, "Autosaved ledger", log.FieldRevision, rev)
	return true
}
