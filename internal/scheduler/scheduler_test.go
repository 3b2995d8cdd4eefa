package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu       sync.Mutex
	rev      uint64
	persists int
	err      error
}

func (f *fakeLedger) Persist(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.persists++
	return nil
}

func (f *fakeLedger) Revision() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rev
}

func (f *fakeLedger) bump() {
	f.mu.Lock()
	f.rev++
	f.mu.Unlock()
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.persists
}

func TestNewAutosaverRejectsBadSpec(t *testing.T) {
	_, err := NewAutosaver("whenever", &fakeLedger{}, nil)
	assert.Error(t, err)
}

func TestSaveNowSkipsUnchangedLedger(t *testing.T) {
	fl := &fakeLedger{}
	a, err := NewAutosaver("@every 1h", fl, nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, a.SaveNow(ctx), "first save always happens")
	assert.False(t, a.SaveNow(ctx))
	fl.bump()
	assert.True(t, a.SaveNow(ctx))
	assert.Equal(t, 2, fl.count())
}

func TestSaveNowRetriesAfterFailure(t *testing.T) {
	fl := &fakeLedger{err: errors.New("disk full")}
	a, err := NewAutosaver("@every 1h", fl, nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, a.SaveNow(ctx))
	fl.mu.Lock()
	fl.err = nil
	fl.mu.Unlock()
	assert.True(t, a.SaveNow(ctx))
}

func TestRunFiresOnSchedule(t *testing.T) {
	fl := &fakeLedger{}
	a, err := NewAutosaver("@every 1s", fl, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Eventually(t, func() bool { return fl.count() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
