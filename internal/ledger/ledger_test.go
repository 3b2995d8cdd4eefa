package ledger

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbot/internal/core"
	"finbot/internal/storage/file"
	"finbot/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []core.LedgerEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev core.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func TestNewSeedsDefaults(t *testing.T) {
	l := New(memory.New())
	s := l.Snapshot()

	assert.Equal(t, map[string]float64{"groceries": 300, "entertainment": 100}, s.Budgets)
	assert.Empty(t, s.Expenses)
	assert.Empty(t, s.Debts)
	assert.Zero(t, s.Income)
}

func TestRecordExpense(t *testing.T) {
	l := New(memory.New())

	remaining, err := l.RecordExpense("groceries", 50)
	require.NoError(t, err)
	assert.Equal(t, 250.0, remaining)

	remaining, err = l.RecordExpense("groceries", 300)
	require.NoError(t, err)
	assert.Equal(t, -50.0, remaining)

	// sign is the caller's business
	remaining, err = l.RecordExpense("entertainment", -20)
	require.NoError(t, err)
	assert.Equal(t, 120.0, remaining)

	assert.Len(t, l.Snapshot().Expenses, 3)
}

func TestRecordExpenseUnknownCategoryLeavesStateUnchanged(t *testing.T) {
	pub := &recordingPublisher{}
	l := New(memory.New(), WithPublisher(pub))
	_, err := l.RecordExpense("groceries", 10)
	require.NoError(t, err)
	before := l.Snapshot()
	rev := l.Revision()

	_, err = l.RecordExpense("travel", 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownCategory))
	var uce *core.UnknownCategoryError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "travel", uce.Category)
	assert.Equal(t, before, l.Snapshot())
	assert.Equal(t, rev, l.Revision())
	assert.Len(t, pub.events, 1)
}

func TestSpentEqualsSumOfRecordedAmounts(t *testing.T) {
	l := New(nil)
	l.AddOrUpdateBudgetCategory("rent", 1200)
	cats := []string{"groceries", "entertainment", "rent"}
	want := map[string]float64{}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		cat := cats[rng.Intn(len(cats))]
		amt := float64(rng.Intn(10000)) / 100
		_, err := l.RecordExpense(cat, amt)
		require.NoError(t, err)
		want[cat] += amt

		s := l.Snapshot()
		for _, c := range cats {
			assert.InDelta(t, want[c], s.SpentOn(c), 1e-6)
		}
	}
}

func TestBudgetIncomeAndDebts(t *testing.T) {
	l := New(nil)

	l.AddOrUpdateBudgetCategory("travel", 500)
	l.AddOrUpdateBudgetCategory("groceries", 350)
	l.SetIncome(3000)
	l.SetIncome(3200)
	l.AddDebt("card", 1200, 19.9)
	l.AddDebt("card", 300, 19.9)

	s := l.Snapshot()
	assert.Equal(t, 500.0, s.Budgets["travel"])
	assert.Equal(t, 350.0, s.Budgets["groceries"])
	assert.Equal(t, 3200.0, s.Income)
	assert.Equal(t, []core.Debt{
		{Name: "card", Balance: 1200, APR: 19.9},
		{Name: "card", Balance: 300, APR: 19.9},
	}, s.Debts)
	assert.Equal(t, uint64(6), l.Revision())
}

func TestSnapshotIsDetached(t *testing.T) {
	l := New(nil)
	s := l.Snapshot()
	s.Budgets["groceries"] = 0
	s.Expenses = append(s.Expenses, core.Expense{Category: "x", Amount: 1})

	fresh := l.Snapshot()
	assert.Equal(t, 300.0, fresh.Budgets["groceries"])
	assert.Empty(t, fresh.Expenses)
}

func TestRestoreRoundTrip(t *testing.T) {
	l := New(nil)
	l.AddOrUpdateBudgetCategory("travel", 400)
	_, _ = l.RecordExpense("travel", 120)
	_, _ = l.RecordExpense("groceries", 80)
	l.SetIncome(2500)
	l.AddDebt("loan", 4000, 5)
	snap := l.Snapshot()

	other := New(nil)
	other.Restore(snap)

	assert.Equal(t, snap, other.Snapshot())
}

func TestRestoreNilCollections(t *testing.T) {
	l := New(nil)
	l.Restore(core.Snapshot{Income: 10})

	s := l.Snapshot()
	assert.NotNil(t, s.Budgets)
	assert.Empty(t, s.Budgets)
	assert.NotNil(t, s.Expenses)
	assert.NotNil(t, s.Debts)
	assert.Equal(t, 10.0, s.Income)
}

func TestPersistAndLoad(t *testing.T) {
	ctx := context.Background()
	store := file.New(filepath.Join(t.TempDir(), "finbot_data.json"))

	l := New(store)
	l.AddDebt("card", 900, 22)
	_, err := l.RecordExpense("entertainment", 35)
	require.NoError(t, err)
	require.NoError(t, l.Persist(ctx))

	fresh := New(store)
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, l.Snapshot(), fresh.Snapshot())
}

func TestLoadMissingResetsToDefaults(t *testing.T) {
	l := New(file.New(filepath.Join(t.TempDir(), "absent.json")))
	l.SetIncome(100)
	l.AddOrUpdateBudgetCategory("travel", 10)

	err := l.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.False(t, errors.Is(err, core.ErrPersistence))
	assert.Equal(t, core.NewDefaultSnapshot(), l.Snapshot())
}

func TestLoadCorruptKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finbot_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"expenses": "nope"`), 0644))
	l := New(file.New(path))
	l.SetIncome(4200)
	before := l.Snapshot()

	err := l.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPersistence))
	assert.False(t, errors.Is(err, core.ErrNotFound))
	assert.Equal(t, before, l.Snapshot())
}

func TestPersistWithoutStore(t *testing.T) {
	l := New(nil)
	assert.True(t, errors.Is(l.Persist(context.Background()), core.ErrPersistence))
	assert.True(t, errors.Is(l.Load(context.Background()), core.ErrPersistence))
}

func TestPublisherReceivesEvents(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	l := New(nil, WithPublisher(pub))

	remaining, err := l.RecordExpense("groceries", 20)
	require.NoError(t, err, "publish failures must not fail the mutation")
	l.AddOrUpdateBudgetCategory("travel", 50)
	l.SetIncome(1000)
	l.AddDebt("card", 10, 20)

	require.Len(t, pub.events, 4)
	assert.Equal(t, core.LedgerEvent{
		Type:      core.EventExpenseRecorded,
		Revision:  1,
		Category:  "groceries",
		Amount:    20,
		Remaining: remaining,
	}, pub.events[0])
	assert.Equal(t, core.EventBudgetUpdated, pub.events[1].Type)
	assert.Equal(t, core.EventIncomeSet, pub.events[2].Type)
	assert.Equal(t, core.EventDebtAdded, pub.events[3].Type)
	assert.Equal(t, uint64(4), pub.events[3].Revision)
}

func TestConcurrentMutations(t *testing.T) {
	l := New(memory.New())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = l.RecordExpense("groceries", 1)
		}()
		go func() {
			defer wg.Done()
			_ = l.Snapshot()
			_ = l.Persist(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 50.0, l.Snapshot().SpentOn("groceries"))
	assert.Equal(t, uint64(50), l.Revision())
}

func TestVersionedMatchesRevision(t *testing.T) {
	l := New(memory.New())
	_, before := l.Versioned()

	_, err := l.RecordExpense("groceries", 10)
	require.NoError(t, err)

	snap, rev := l.Versioned()
	assert.Equal(t, before+1, rev)
	assert.Equal(t, l.Revision(), rev)
	assert.Len(t, snap.Expenses, 1)
}
