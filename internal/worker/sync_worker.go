package worker

import (
	"context"
	"fmt"
	"time"

	"finbot/internal/amqp"
	"finbot/internal/cache"
	"finbot/internal/core"
	"finbot/internal/log"
	"finbot/internal/sheets"
)

const (
	seenCacheSize = 1024
	seenCacheTTL  = time.Hour
)

// SyncWorker mirrors recorded expenses into the expenses sheet as ledger
// events arrive over AMQP.
type SyncWorker struct {
	sheets sheets.ExpenseAppender
	logger *log.Logger
	// seen holds IDs of messages already appended, so a redelivery after a
	// lost ack does not duplicate the row.
	seen *cache.LRUCache[string]
}

func NewSyncWorker(appender sheets.ExpenseAppender, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		sheets: appender,
		logger: logger.WithComponent(log.ComponentWorker),
		seen:   cache.NewLRUCache[string](seenCacheSize, seenCacheTTL),
	}
}

// Seen exposes the dedup cache so it can be swept by a cache.Manager.
func (w *SyncWorker) Seen() *cache.LRUCache[string] {
	return w.seen
}

// HandleMessage processes one ledger event. Only recorded expenses reach the
// sheet; every other event type is acknowledged and ignored.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.Message) error {
	if msg.Type != core.EventExpenseRecorded {
		w.logger.DebugContext(ctx, "Ignoring ledger event",
			log.FieldEventType, msg.Type,
			log.FieldRevision, msg.Revision)
		return nil
	}
	if ref, ok := w.seen.Get(msg.ID); ok {
		w.logger.InfoContext(ctx, "Skipping duplicate expense message",
			"id", msg.ID,
			"sheets_ref", ref)
		return nil
	}

	ref, err := w.sheets.AppendExpense(ctx, sheets.ExpenseRow{
		At:        msg.Timestamp,
		Category:  msg.Category,
		Amount:    msg.Amount,
		Remaining: msg.Remaining,
	})
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}
	w.seen.Set(msg.ID, ref)

	w.logger.InfoContext(ctx, "Successfully synced expense",
		"id", msg.ID,
		"sheets_ref", ref,
		log.FieldCategory, msg.Category,
		log.FieldAmount, msg.Amount)
	return nil
}

// Consumer is the subset of amqp.Client the worker runs on.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, *amqp.Message) error) error
}

// Run consumes until ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer) error {
	w.logger.InfoContext(ctx, "Sync worker started")
	err := consumer.Consume(ctx, w.HandleMessage)
	if ctx.Err() != nil {
		w.logger.InfoContext(ctx, "Sync worker stopped")
		return nil
	}
	return err
}
