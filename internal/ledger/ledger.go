// Package ledger owns the authoritative budget, expense, debt and income
// state. Every method is safe for concurrent use.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finbot/internal/core"
	"finbot/internal/log"
	"finbot/internal/storage"
)

// Publisher is notified after each successful mutation.
type Publisher interface {
	Publish(ctx context.Context, ev core.LedgerEvent) error
}

type Option func(*Ledger)

// WithPublisher attaches an event publisher. Publish failures are logged and
// never undo the mutation.
func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) { l.logger = logger.WithComponent(log.ComponentLedger) }
}

type Ledger struct {
	mu       sync.RWMutex
	state    core.Snapshot
	revision uint64

	store     storage.SnapshotStore
	publisher Publisher
	logger    *log.Logger
}

// New returns a ledger seeded with the default budgets. store may be nil, in
// which case Persist and Load fail.
func New(store storage.SnapshotStore, opts ...Option) *Ledger {
	l := &Ledger{
		state:  core.NewDefaultSnapshot(),
		store:  store,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RecordExpense appends an expense and returns what is left of the category
// budget. The amount sign is not checked here.
func (l *Ledger) RecordExpense(category string, amount float64) (float64, error) {
	l.mu.Lock()
	limit, ok := l.state.Budgets[category]
	if !ok {
		l.mu.Unlock()
		return 0, &core.UnknownCategoryError{Category: category}
	}
	l.state.Expenses = append(l.state.Expenses, core.Expense{Category: category, Amount: amount})
	remaining := limit - l.state.SpentOn(category)
	rev := l.bumpLocked()
	l.mu.Unlock()

	l.publish(core.LedgerEvent{
		Type:      core.EventExpenseRecorded,
		Revision:  rev,
		Category:  category,
		Amount:    amount,
		Remaining: remaining,
	})
	return remaining, nil
}

// AddOrUpdateBudgetCategory sets the limit for category, creating it if needed.
func (l *Ledger) AddOrUpdateBudgetCategory(category string, limit float64) {
	l.mu.Lock()
	l.state.Budgets[category] = limit
	rev := l.bumpLocked()
	l.mu.Unlock()

	l.publish(core.LedgerEvent{Type: core.EventBudgetUpdated, Revision: rev, Category: category, Amount: limit})
}

func (l *Ledger) SetIncome(amount float64) {
	l.mu.Lock()
	l.state.Income = amount
	rev := l.bumpLocked()
	l.mu.Unlock()

	l.publish(core.LedgerEvent{Type: core.EventIncomeSet, Revision: rev, Amount: amount})
}

// AddDebt appends a debt. Debts with the same name are kept separately.
func (l *Ledger) AddDebt(name string, balance, apr float64) {
	l.mu.Lock()
	l.state.Debts = append(l.state.Debts, core.Debt{Name: name, Balance: balance, APR: apr})
	rev := l.bumpLocked()
	l.mu.Unlock()

	l.publish(core.LedgerEvent{Type: core.EventDebtAdded, Revision: rev, Name: name, Balance: balance, APR: apr})
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() core.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Clone()
}

// Versioned returns a snapshot together with the revision it was taken at.
func (l *Ledger) Versioned() (core.Snapshot, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Clone(), l.revision
}

// Restore replaces every collection at once.
func (l *Ledger) Restore(s core.Snapshot) {
	c := s.Clone()
	l.mu.Lock()
	l.state = c
	rev := l.bumpLocked()
	l.mu.Unlock()

	l.publish(core.LedgerEvent{Type: core.EventLedgerRestored, Revision: rev})
}

// Revision increases with every mutation.
func (l *Ledger) Revision() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.revision
}

// Location describes the configured persistence target.
func (l *Ledger) Location() string {
	if l.store == nil {
		return ""
	}
	return l.store.Location()
}

// Persist writes the current snapshot to the store. The write happens outside
// the lock.
func (l *Ledger) Persist(ctx context.Context) error {
	if l.store == nil {
		return &core.PersistenceError{Op: "save", Err: errors.New("no store configured")}
	}
	snap := l.Snapshot()
	if err := l.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	l.logger.DebugContext(ctx, "Ledger persisted",
		log.FieldLocation, l.store.Location(),
		log.FieldCount, len(snap.Expenses))
	return nil
}

// Load replaces the state with the stored snapshot. When nothing was saved
// yet the ledger is reset to defaults and the returned error matches
// core.ErrNotFound. A corrupt document leaves the state untouched.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return &core.PersistenceError{Op: "load", Err: errors.New("no store configured")}
	}
	snap, err := l.store.Load(ctx)
	if errors.Is(err, core.ErrNotFound) {
		l.Restore(core.NewDefaultSnapshot())
		return err
	}
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	l.Restore(snap)
	l.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldLocation, l.store.Location(),
		log.FieldCount, len(snap.Expenses))
	return nil
}

func (l *Ledger) bumpLocked() uint64 {
	l.revision++
	return l.revision
}

func (l *Ledger) publish(ev core.LedgerEvent) {
	if l.publisher == nil {
		return
	}
	ctx := context.Background()
	if err := l.publisher.Publish(ctx, ev); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldEventType, ev.Type,
			log.FieldError, err)
	}
}
