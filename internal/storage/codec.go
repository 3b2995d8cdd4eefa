package storage

import (
	"encoding/json"
	"fmt"

	"finbot/internal/core"
)

// document mirrors core.Snapshot but keeps track of which fields were present.
type document struct {
	Budgets  map[string]float64 `json:"budgets"`
	Expenses []core.Expense     `json:"expenses"`
	Debts    []core.Debt        `json:"debts"`
	Income   float64            `json:"income"`
}

// Encode renders s as the persisted JSON document.
func Encode(s core.Snapshot) ([]byte, error) {
	doc := document(s.Clone())
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a persisted document. Unknown fields are ignored, missing
// collections come back empty and a missing budgets object keeps the default
// categories.
func Decode(data []byte) (core.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	s := core.Snapshot(doc).Clone()
	if doc.Budgets == nil {
		s.Budgets = core.CopyBudgets(core.DefaultBudgets)
	}
	return s, nil
}
