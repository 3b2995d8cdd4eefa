package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbot/internal/core"
	"finbot/internal/storage/memory"
)

// blockingPublisher holds every Publish call until release is closed.
type blockingPublisher struct {
	release chan struct{}

	mu     sync.Mutex
	events []core.LedgerEvent
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{release: make(chan struct{})}
}

func (p *blockingPublisher) Publish(_ context.Context, ev core.LedgerEvent) error {
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *blockingPublisher) delivered() []core.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.LedgerEvent(nil), p.events...)
}

func TestAsyncPublisherDoesNotBlockMutations(t *testing.T) {
	slow := newBlockingPublisher()
	events := NewAsyncPublisher(slow, 8, nil)
	l := New(memory.New(), WithPublisher(events))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := l.RecordExpense("groceries", 10)
		assert.NoError(t, err)
		l.AddDebt("card", 500, 19.9)
		l.SetIncome(2000)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutations waited on the publisher")
	}
	assert.Empty(t, slow.delivered())

	close(slow.release)
	require.NoError(t, events.Close(context.Background()))

	got := slow.delivered()
	require.Len(t, got, 3)
	assert.Equal(t, core.EventExpenseRecorded, got[0].Type)
	assert.Equal(t, core.EventDebtAdded, got[1].Type)
	assert.Equal(t, core.EventIncomeSet, got[2].Type)
}

func TestAsyncPublisherDropsWhenFull(t *testing.T) {
	slow := newBlockingPublisher()
	events := NewAsyncPublisher(slow, 1, nil)
	l := New(nil, WithPublisher(events))

	for i := 0; i < 10; i++ {
		_, err := l.RecordExpense("groceries", 1)
		require.NoError(t, err)
	}

	// at most one event in flight plus one queued
	assert.GreaterOrEqual(t, events.Dropped(), uint64(8))
	assert.Len(t, l.Snapshot().Expenses, 10)

	close(slow.release)
	require.NoError(t, events.Close(context.Background()))
}

func TestAsyncPublisherCloseTimesOut(t *testing.T) {
	slow := newBlockingPublisher()
	events := NewAsyncPublisher(slow, 4, nil)
	require.NoError(t, events.Publish(context.Background(), core.LedgerEvent{Type: core.EventIncomeSet}))
	require.NoError(t, events.Publish(context.Background(), core.LedgerEvent{Type: core.EventIncomeSet}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	closed := make(chan error, 1)
	go func() { closed <- events.Close(ctx) }()

	time.Sleep(50 * time.Millisecond)
	close(slow.release)

	select {
	case err := <-closed:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
	assert.Len(t, slow.delivered(), 1, "queued events are dropped once the deadline passes")
	assert.ErrorIs(t, events.Publish(context.Background(), core.LedgerEvent{}), ErrPublisherClosed)
}
