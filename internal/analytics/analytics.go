// Package analytics derives summaries, a health score and advice from a
// ledger snapshot. Every function is pure.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"finbot/internal/core"
)

// CategorySummary is one budget category's standing.
type CategorySummary struct {
	Category   string  `json:"category"`
	Spent      float64 `json:"spent"`
	Budget     float64 `json:"budget"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// PayoffStep is one entry of a debt payoff plan.
type PayoffStep struct {
	Name   string `json:"name"`
	Action string `json:"action"`
}

const (
	MethodAvalanche = "avalanche"
	MethodSnowball  = "snowball"
)

const targetSavingsRate = 0.20

const healthyMessage = "Great job! Your finances look healthy."

// Summarize reports spent, remaining and percentage used for every budget
// category in name order.
func Summarize(s core.Snapshot) []CategorySummary {
	out := make([]CategorySummary, 0, len(s.Budgets))
	for _, cat := range s.Categories() {
		budget := s.Budgets[cat]
		spent := s.SpentOn(cat)
		var pct float64
		if budget > 0 {
			pct = spent / budget * 100
		}
		out = append(out, CategorySummary{
			Category:   cat,
			Spent:      spent,
			Budget:     budget,
			Remaining:  budget - spent,
			Percentage: pct,
		})
	}
	return out
}

// TotalSpent sums every expense, including ones whose category no longer has
// a budget.
func TotalSpent(s core.Snapshot) float64 {
	var total float64
	for _, e := range s.Expenses {
		total += e.Amount
	}
	return total
}

// SpendingByCategory returns the amount spent per budget category, in name
// order. It is the input for spending charts.
func SpendingByCategory(s core.Snapshot) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(s.Budgets))
	for _, cat := range s.Categories() {
		out = append(out, core.CategoryAmount{Name: cat, Amount: s.SpentOn(cat)})
	}
	return out
}

// HealthScore blends the debt-to-income and savings ratios into 0..100.
// With no income the score is 0. A debt ratio above 1 can push the raw value
// negative; the clamp absorbs it.
func HealthScore(s core.Snapshot) int {
	if s.Income == 0 {
		return 0
	}
	debtRatio := s.TotalDebt() / s.Income
	savingsRatio := (s.Income - TotalSpent(s)) / s.Income
	score := 50*(1-debtRatio) + 50*savingsRatio
	score = math.Max(0, math.Min(100, score))
	return int(math.RoundToEven(score))
}

// HealthStatus labels a score.
func HealthStatus(score int) string {
	switch {
	case score > 75:
		return "Excellent"
	case score > 50:
		return "Good"
	default:
		return "Needs Attention"
	}
}

// HealthInterpretation is the longer advice shown next to a score.
func HealthInterpretation(score int) string {
	switch {
	case score > 75:
		return "Excellent financial health! Maintain good habits"
	case score > 50:
		return "Good foundation, room for improvement"
	default:
		return "Needs attention - focus on debt reduction and savings"
	}
}

// Recommendations lists advice in priority order: overspent categories, a
// savings nudge, then the most expensive debt. It is never empty.
func Recommendations(s core.Snapshot) []string {
	var recs []string

	for _, cat := range s.Categories() {
		budget := s.Budgets[cat]
		if spent := s.SpentOn(cat); spent > budget {
			recs = append(recs, fmt.Sprintf("Reduce %s spending by $%.2f to stay within budget", cat, spent-budget))
		}
	}

	if s.Income > 0 {
		rate := (s.Income - TotalSpent(s)) / s.Income
		if rate < targetSavingsRate {
			recs = append(recs, fmt.Sprintf("Increase savings rate (current: %s). Aim for 20%%!", formatPercent(rate)))
		}
	}

	if d, ok := highestAPR(s.Debts); ok {
		recs = append(recs, fmt.Sprintf("Prioritize paying off %s (APR: %s%%) first", d.Name, core.FormatDecimal(d.APR)))
	}

	if len(recs) == 0 {
		return []string{healthyMessage}
	}
	return recs
}

// highestAPR returns the first debt with the largest APR.
func highestAPR(debts []core.Debt) (core.Debt, bool) {
	if len(debts) == 0 {
		return core.Debt{}, false
	}
	best := debts[0]
	for _, d := range debts[1:] {
		if d.APR > best.APR {
			best = d
		}
	}
	return best, true
}

// DebtPayoffPlan orders debts by descending APR for "avalanche" and by
// ascending balance for anything else. Ties keep their original order.
func DebtPayoffPlan(s core.Snapshot, method string) []PayoffStep {
	debts := make([]core.Debt, len(s.Debts))
	copy(debts, s.Debts)

	if method == MethodAvalanche {
		sort.SliceStable(debts, func(i, j int) bool { return debts[i].APR > debts[j].APR })
	} else {
		sort.SliceStable(debts, func(i, j int) bool { return debts[i].Balance < debts[j].Balance })
	}

	plan := make([]PayoffStep, 0, len(debts))
	for _, d := range debts {
		plan = append(plan, PayoffStep{
			Name:   d.Name,
			Action: fmt.Sprintf("Pay minimum + extra to %s first", d.Name),
		})
	}
	return plan
}

// formatPercent renders a ratio as a whole percentage, e.g. 0.125 -> "12%".
// Halves round to even.
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}
