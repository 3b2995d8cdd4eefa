package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbot/internal/core"
)

func snapshot(income float64, expenses []core.Expense, debts []core.Debt) core.Snapshot {
	s := core.NewDefaultSnapshot()
	s.Income = income
	s.Expenses = append(s.Expenses, expenses...)
	s.Debts = append(s.Debts, debts...)
	return s
}

func TestSummarize(t *testing.T) {
	s := snapshot(0, []core.Expense{
		{Category: "groceries", Amount: 150},
		{Category: "groceries", Amount: 30},
		{Category: "entertainment", Amount: 120},
	}, nil)
	s.Budgets["free"] = 0

	got := Summarize(s)

	require.Len(t, got, 3)
	assert.Equal(t, "entertainment", got[0].Category)
	assert.Equal(t, 120.0, got[0].Spent)
	assert.Equal(t, -20.0, got[0].Remaining)
	assert.InDelta(t, 120.0, got[0].Percentage, 1e-9)
	assert.Equal(t, CategorySummary{Category: "free", Spent: 0, Budget: 0, Remaining: 0, Percentage: 0}, got[1])
	assert.Equal(t, "groceries", got[2].Category)
	assert.InDelta(t, 60.0, got[2].Percentage, 1e-9)
	assert.Equal(t, 120.0, got[2].Remaining)
}

func TestTotalSpentKeepsOrphanedCategories(t *testing.T) {
	s := snapshot(0, []core.Expense{
		{Category: "groceries", Amount: 10},
		{Category: "retired", Amount: 5},
	}, nil)

	assert.Equal(t, 15.0, TotalSpent(s))
	assert.Equal(t, []core.CategoryAmount{
		{Name: "entertainment", Amount: 0},
		{Name: "groceries", Amount: 10},
	}, SpendingByCategory(s))
}

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expenses []core.Expense
		debts    []core.Debt
		want     int
	}{
		{"no income", 0, []core.Expense{{Category: "groceries", Amount: 10}}, []core.Debt{{Name: "a", Balance: 100}}, 0},
		{"perfect", 1000, nil, nil, 100},
		{"half spent", 1000, []core.Expense{{Category: "groceries", Amount: 500}}, nil, 75},
		{"debt equals income", 1000, nil, []core.Debt{{Name: "a", Balance: 1000}}, 50},
		{"clamped low", 1000, []core.Expense{{Category: "groceries", Amount: 3000}}, []core.Debt{{Name: "a", Balance: 50000}}, 0},
		{"rounds to nearest", 1000, []core.Expense{{Category: "groceries", Amount: 1}}, nil, 100},
		{"half rounds to even down", 100, []core.Expense{{Category: "groceries", Amount: 3}}, nil, 98},
		{"half rounds to even up", 100, []core.Expense{{Category: "groceries", Amount: 5}}, nil, 98},
		{"rounding", 3000, []core.Expense{{Category: "groceries", Amount: 1000}}, []core.Debt{{Name: "a", Balance: 500}}, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HealthScore(snapshot(tt.income, tt.expenses, tt.debts)))
		})
	}
}

func TestHealthScoreAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		s := snapshot(float64(rng.Intn(10000)), nil, nil)
		for j := rng.Intn(5); j > 0; j-- {
			s.Expenses = append(s.Expenses, core.Expense{Category: "groceries", Amount: float64(rng.Intn(20000))})
		}
		for j := rng.Intn(3); j > 0; j-- {
			s.Debts = append(s.Debts, core.Debt{Name: "d", Balance: float64(rng.Intn(100000))})
		}
		score := HealthScore(s)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestHealthStatus(t *testing.T) {
	assert.Equal(t, "Excellent", HealthStatus(76))
	assert.Equal(t, "Good", HealthStatus(75))
	assert.Equal(t, "Good", HealthStatus(51))
	assert.Equal(t, "Needs Attention", HealthStatus(50))
	assert.Equal(t, "Needs Attention", HealthStatus(0))
	assert.Equal(t, "Good foundation, room for improvement", HealthInterpretation(60))
}

func TestRecommendations(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		got := Recommendations(snapshot(1000, []core.Expense{{Category: "groceries", Amount: 100}}, nil))
		assert.Equal(t, []string{"Great job! Your finances look healthy."}, got)
	})

	t.Run("empty ledger", func(t *testing.T) {
		assert.Equal(t, []string{"Great job! Your finances look healthy."}, Recommendations(core.NewDefaultSnapshot()))
	})

	t.Run("all kinds in priority order", func(t *testing.T) {
		s := snapshot(1000, []core.Expense{
			{Category: "groceries", Amount: 350.5},
			{Category: "entertainment", Amount: 450},
		}, []core.Debt{
			{Name: "car", Balance: 5000, APR: 6},
			{Name: "card", Balance: 800, APR: 24.5},
			{Name: "store", Balance: 100, APR: 24.5},
		})

		assert.Equal(t, []string{
			"Reduce entertainment spending by $350.00 to stay within budget",
			"Reduce groceries spending by $50.50 to stay within budget",
			"Increase savings rate (current: 20%). Aim for 20%!",
			"Prioritize paying off card (APR: 24.5%) first",
		}, Recommendations(s))
	})

	t.Run("savings nudge", func(t *testing.T) {
		s := snapshot(1000, []core.Expense{{Category: "groceries", Amount: 290}, {Category: "other", Amount: 600}}, nil)
		assert.Equal(t, []string{"Increase savings rate (current: 11%). Aim for 20%!"}, Recommendations(s))
	})

	t.Run("negative savings", func(t *testing.T) {
		s := snapshot(100, []core.Expense{{Category: "groceries", Amount: 150}}, nil)
		assert.Equal(t, []string{"Increase savings rate (current: -50%). Aim for 20%!"}, Recommendations(s))
	})

	t.Run("highest apr first wins ties", func(t *testing.T) {
		s := snapshot(0, nil, []core.Debt{
			{Name: "a", Balance: 1, APR: 10},
			{Name: "b", Balance: 1, APR: 18},
			{Name: "c", Balance: 1, APR: 18},
		})
		assert.Equal(t, []string{"Prioritize paying off b (APR: 18.0%) first"}, Recommendations(s))
	})
}

func names(plan []PayoffStep) []string {
	out := make([]string, len(plan))
	for i, p := range plan {
		out[i] = p.Name
	}
	return out
}

func TestDebtPayoffPlan(t *testing.T) {
	s := snapshot(0, nil, []core.Debt{
		{Name: "A", Balance: 1000, APR: 10},
		{Name: "B", Balance: 500, APR: 25},
		{Name: "C", Balance: 2000, APR: 5},
	})

	assert.Equal(t, []string{"B", "A", "C"}, names(DebtPayoffPlan(s, "avalanche")))
	assert.Equal(t, []string{"B", "A", "C"}, names(DebtPayoffPlan(s, "snowball")))
	assert.Equal(t, []string{"B", "A", "C"}, names(DebtPayoffPlan(s, "anything")))

	plan := DebtPayoffPlan(s, "avalanche")
	assert.Equal(t, "Pay minimum + extra to B first", plan[0].Action)
}

func TestDebtPayoffPlanOrderingDiffers(t *testing.T) {
	s := snapshot(0, nil, []core.Debt{
		{Name: "card", Balance: 3000, APR: 22},
		{Name: "loan", Balance: 800, APR: 4},
		{Name: "store", Balance: 800, APR: 15},
		{Name: "car", Balance: 9000, APR: 15},
	})

	assert.Equal(t, []string{"card", "store", "car", "loan"}, names(DebtPayoffPlan(s, MethodAvalanche)))
	assert.Equal(t, []string{"loan", "store", "card", "car"}, names(DebtPayoffPlan(s, MethodSnowball)))
	assert.Equal(t, []string{"loan", "store", "card", "car"}, names(DebtPayoffPlan(s, "AVALANCHE")), "method match is exact")
	assert.Equal(t, "card", s.Debts[0].Name, "input must not be reordered")
}

func TestDebtPayoffPlanEmpty(t *testing.T) {
	assert.Empty(t, DebtPayoffPlan(core.NewDefaultSnapshot(), MethodAvalanche))
}
