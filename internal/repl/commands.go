package repl

import (
	"context"
	"errors"
	"fmt"

	"finbot/internal/analytics"
	"finbot/internal/chart"
	"finbot/internal/core"
	"finbot/internal/log"
)

func (r *REPL) logExpense(args []string) {
	const usage = "log [category] [amount]"
	if len(args) != 2 {
		r.usage(nil, usage)
		return
	}
	category := args[0]
	amount, err := core.ParsePositive("amount", args[1])
	if err != nil {
		r.usage(err, usage)
		return
	}

	remaining, err := r.ledger.RecordExpense(category, amount)
	if errors.Is(err, core.ErrUnknownCategory) {
		r.println(r.st.formatWarning(fmt.Sprintf("Category '%s' not found. Use 'add [category] [budget]' to create it.", category)))
		return
	}
	if err != nil {
		r.println(r.st.formatError(err.Error()))
		return
	}

	if remaining < 0 {
		r.println(r.st.formatWarning(fmt.Sprintf("Overspent on %s! Exceeded by %s.", category, core.FormatDollars(-remaining))))
		return
	}
	r.println(r.st.formatSuccess(fmt.Sprintf("Logged %s for %s. Remaining: %s", core.FormatDollars(amount), category, core.FormatDollars(remaining))))
}

func (r *REPL) addBudget(args []string) {
	const usage = "add [category] [budget]"
	if len(args) != 2 {
		r.usage(nil, usage)
		return
	}
	limit, err := core.ParseNonNegative("budget", args[1])
	if err != nil {
		r.usage(err, usage)
		return
	}
	r.ledger.AddOrUpdateBudgetCategory(args[0], limit)
	r.println(r.st.formatSuccess(fmt.Sprintf("Added category: %s (Budget: %s)", args[0], core.FormatDollars(limit))))
}

func (r *REPL) setIncome(args []string) {
	if len(args) != 1 {
		r.println(r.st.formatError("Use: set income [amount]"))
		return
	}
	income, err := core.ParseNonNegative("income", args[0])
	if err != nil {
		r.println(r.st.formatError("Invalid amount: " + err.Error()))
		return
	}
	r.ledger.SetIncome(income)
	r.println(r.st.formatSuccess("Monthly income set to " + core.FormatDollars(income)))
}

func (r *REPL) addDebt(args []string) {
	const usage = "add debt [name] [balance] [apr]"
	if len(args) != 3 {
		r.usage(nil, usage)
		return
	}
	balance, err := core.ParseNonNegative("balance", args[1])
	if err != nil {
		r.usage(err, usage)
		return
	}
	apr, err := core.ParseNonNegative("apr", args[2])
	if err != nil {
		r.usage(err, usage)
		return
	}
	r.ledger.AddDebt(args[0], balance, apr)
	r.println(r.st.formatSuccess(fmt.Sprintf("Added debt: %s ($%s @ %s%%)", args[0], core.FormatNumber(balance), core.FormatNumber(apr))))
}

func (r *REPL) summary() {
	r.println()
	r.println(r.st.title.Render("--- Monthly Summary ---"))
	for _, row := range analytics.Summarize(r.ledger.Snapshot()) {
		line := fmt.Sprintf("%s: %s / $%s | Remaining: %s",
			row.Category, core.FormatDollars(row.Spent), core.FormatNumber(row.Budget), core.FormatDollars(row.Remaining))
		if row.Remaining < 0 {
			line = r.st.warning.Render(line)
		}
		r.println(line)
	}
}

func (r *REPL) plot() {
	snap := r.ledger.Snapshot()
	if len(snap.Expenses) == 0 {
		r.println(r.st.formatError("No expenses to plot!"))
		return
	}

	data := analytics.SpendingByCategory(snap)
	width := 0
	for _, d := range data {
		width = max(width, len(d.Name))
	}

	r.println()
	r.println(r.st.title.Render(chart.Title))
	for _, bar := range chart.TextBars(data, plotWidth) {
		style := r.st.bar
		if bar.Amount > snap.Budgets[bar.Label] {
			style = r.st.overBar
		}
		r.println(fmt.Sprintf("%-*s │%s %s", width, bar.Label, style.Render(bar.Fill), r.st.subtle.Render(core.FormatDollars(bar.Amount))))
	}
}

func (r *REPL) recommend() {
	r.println()
	r.println(r.st.title.Render("🤖 Recommendations:"))
	for i, rec := range analytics.Recommendations(r.ledger.Snapshot()) {
		r.println(fmt.Sprintf("%d. %s", i+1, rec))
	}
}

func (r *REPL) health() {
	score := analytics.HealthScore(r.ledger.Snapshot())
	r.println()
	r.println(r.st.title.Render(fmt.Sprintf("🏥 Financial Health Score: %d/100", score)))
	r.println(r.st.bold.Render("💡 Interpretation:"))
	r.println(analytics.HealthInterpretation(score))
}

func (r *REPL) planDebt(args []string) {
	if len(args) != 1 || (args[0] != analytics.MethodAvalanche && args[0] != analytics.MethodSnowball) {
		r.println(r.st.formatError("Use: plan debt [avalanche/snowball]"))
		return
	}
	plan := analytics.DebtPayoffPlan(r.ledger.Snapshot(), args[0])
	r.println()
	r.println(r.st.title.Render("🔗 Debt Payoff Strategy:"))
	if len(plan) == 0 {
		r.println(r.st.subtle.Render("No debts recorded."))
		return
	}
	for _, step := range plan {
		r.println("- " + step.Action)
	}
}

func (r *REPL) ask(question string) {
	if question == "" {
		r.println(r.st.formatError("Use: ask [question]"))
		return
	}
	r.println()
	r.println(r.st.bold.Render("💬 Answer:") + " " + analytics.AnswerQuestion(question))
}

func (r *REPL) save(ctx context.Context) bool {
	if err := r.ledger.Persist(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Save failed", log.FieldOperation, log.OpPersist, log.FieldError, err)
		r.println(r.st.formatError("Error saving data: " + err.Error()))
		return false
	}
	r.loadFailed = false
	r.println(r.st.formatSuccess("Data saved to " + r.ledger.Location()))
	return true
}

func (r *REPL) load(ctx context.Context) {
	err := r.ledger.Load(ctx)
	r.loadFailed = err != nil && !errors.Is(err, core.ErrNotFound)
	switch {
	case err == nil:
		r.println(r.st.formatSuccess("Loaded data from " + r.ledger.Location()))
	case errors.Is(err, core.ErrNotFound):
		r.println(r.st.formatInfo("No existing data found. Starting fresh!"))
	default:
		r.logger.ErrorContext(ctx, "Load failed", log.FieldOperation, log.OpLoad, log.FieldError, err)
		r.println(r.st.formatError("Error loading data: " + err.Error()))
	}
}

func (r *REPL) quit(ctx context.Context) {
	if r.loadFailed {
		r.println(r.st.formatWarning("Saved data could not be loaded, leaving " + r.ledger.Location() + " untouched. Use 'save' to overwrite it."))
	} else {
		r.save(ctx)
	}
	r.println("Goodbye! 👋")
}
