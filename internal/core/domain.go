package core

import "sort"

// DefaultBudgets are the categories a fresh ledger starts with.
var DefaultBudgets = map[string]float64{
	"groceries":     300,
	"entertainment": 100,
}

type (
	Expense struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	Debt struct {
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
		APR     float64 `json:"apr"`
	}

	// Snapshot is a detached copy of every ledger collection. It is also the
	// persisted document shape.
	Snapshot struct {
		Budgets  map[string]float64 `json:"budgets"`
		Expenses []Expense          `json:"expenses"`
		Debts    []Debt             `json:"debts"`
		Income   float64            `json:"income"`
	}
)

// NewDefaultSnapshot returns the first-run state.
func NewDefaultSnapshot() Snapshot {
	return Snapshot{
		Budgets:  CopyBudgets(DefaultBudgets),
		Expenses: []Expense{},
		Debts:    []Debt{},
	}
}

// Clone returns a deep copy. Nil collections come back empty.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Budgets:  CopyBudgets(s.Budgets),
		Expenses: make([]Expense, len(s.Expenses)),
		Debts:    make([]Debt, len(s.Debts)),
		Income:   s.Income,
	}
	copy(out.Expenses, s.Expenses)
	copy(out.Debts, s.Debts)
	return out
}

// Categories returns the budget category names in sorted order.
func (s Snapshot) Categories() []string {
	names := make([]string, 0, len(s.Budgets))
	for name := range s.Budgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpentOn sums every expense logged against category.
func (s Snapshot) SpentOn(category string) float64 {
	var total float64
	for _, e := range s.Expenses {
		if e.Category == category {
			total += e.Amount
		}
	}
	return total
}

// TotalDebt sums the balance of every debt.
func (s Snapshot) TotalDebt() float64 {
	var total float64
	for _, d := range s.Debts {
		total += d.Balance
	}
	return total
}

func CopyBudgets(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
