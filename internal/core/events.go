package core

type EventType string

const (
	EventExpenseRecorded EventType = "expense.recorded"
	EventBudgetUpdated   EventType = "budget.updated"
	EventIncomeSet       EventType = "income.set"
	EventDebtAdded       EventType = "debt.added"
	EventLedgerRestored  EventType = "ledger.restored"
)

// LedgerEvent describes one successful ledger mutation. Only the fields that
// belong to Type are set.
type LedgerEvent struct {
	Type      EventType `json:"type"`
	Revision  uint64    `json:"revision"`
	Category  string    `json:"category,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Remaining float64   `json:"remaining,omitempty"`
	Name      string    `json:"name,omitempty"`
	Balance   float64   `json:"balance,omitempty"`
	APR       float64   `json:"apr,omitempty"`
}
