package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := NewDefaultSnapshot()
	s.Expenses = append(s.Expenses, Expense{Category: "groceries", Amount: 10})
	s.Debts = append(s.Debts, Debt{Name: "card", Balance: 100, APR: 18})

	c := s.Clone()
	c.Budgets["groceries"] = 1
	c.Expenses[0].Amount = 99
	c.Debts[0].Name = "loan"

	assert.Equal(t, 300.0, s.Budgets["groceries"])
	assert.Equal(t, 10.0, s.Expenses[0].Amount)
	assert.Equal(t, "card", s.Debts[0].Name)
}

func TestSnapshotCloneNilCollections(t *testing.T) {
	c := Snapshot{}.Clone()
	assert.NotNil(t, c.Budgets)
	assert.NotNil(t, c.Expenses)
	assert.NotNil(t, c.Debts)
}

func TestSnapshotAggregates(t *testing.T) {
	s := Snapshot{
		Budgets: map[string]float64{"rent": 1000, "food": 200, "books": 50},
		Expenses: []Expense{
			{Category: "food", Amount: 20},
			{Category: "rent", Amount: 1000},
			{Category: "food", Amount: 5.5},
		},
		Debts: []Debt{{Name: "a", Balance: 100}, {Name: "b", Balance: 50}},
	}
	assert.Equal(t, []string{"books", "food", "rent"}, s.Categories())
	assert.Equal(t, 25.5, s.SpentOn("food"))
	assert.Equal(t, 0.0, s.SpentOn("books"))
	assert.Equal(t, 150.0, s.TotalDebt())
}

func TestErrorKinds(t *testing.T) {
	var err error = fmt.Errorf("log: %w", &UnknownCategoryError{Category: "travel"})
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.Equal(t, "log: category 'travel' not found", err.Error())

	cause := errors.New("unexpected end of JSON input")
	err = &PersistenceError{Op: "load", Path: "data.json", Err: cause}
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))

	err = &ValidationError{Field: "budget", Reason: "must be greater than zero"}
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "invalid budget: must be greater than zero", err.Error())
}
