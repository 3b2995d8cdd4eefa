package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"finbot/internal/analytics"
	"finbot/internal/chart"
	"finbot/internal/core"
	"finbot/internal/log"
)

type logExpenseRequest struct {
	Category *string         `json:"category"`
	Amount   json.RawMessage `json:"amount"`
}

type logExpenseResponse struct {
	Message   string  `json:"message"`
	Remaining float64 `json:"remaining"`
}

type addBudgetRequest struct {
	Category *string         `json:"category"`
	Budget   json.RawMessage `json:"budget"`
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleLogExpense(w http.ResponseWriter, r *http.Request) {
	var req logExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, log.OpRecordExpense, err)
		return
	}
	if req.Category == nil || !present(req.Amount) {
		writeError(w, r, http.StatusBadRequest, "Missing category or amount")
		return
	}
	amount, err := amountField("amount", req.Amount)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid amount")
		return
	}

	remaining, err := s.ledger.RecordExpense(*req.Category, amount)
	if err != nil {
		fail(w, r, log.OpRecordExpense, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Expense logged",
		log.FieldCategory, *req.Category,
		log.FieldAmount, amount,
		log.FieldRemaining, remaining)
	writeJSON(w, r, http.StatusOK, logExpenseResponse{
		Message:   "Expense logged successfully",
		Remaining: remaining,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"summary": analytics.Summarize(s.ledger.Snapshot()),
	})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	snap, rev := s.ledger.Versioned()
	if len(snap.Expenses) == 0 {
		writeError(w, r, http.StatusBadRequest, "No expenses to plot")
		return
	}
	img, err := s.plotCache.GetOrLoad(fmt.Sprintf("rev:%d", rev), func() (string, error) {
		return chart.PNGBase64(analytics.SpendingByCategory(snap))
	})
	if err != nil {
		fail(w, r, log.OpRender, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"image":   img,
		"success": true,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.Snapshot()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"recommendations": analytics.Recommendations(snap),
		"health_score":    analytics.HealthScore(snap),
	})
}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	var req addBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, log.OpAddBudget, err)
		return
	}
	if req.Category == nil || !present(req.Budget) {
		writeError(w, r, http.StatusBadRequest, "Missing category or budget")
		return
	}
	budget, err := amountField("budget", req.Budget)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid budget amount")
		return
	}

	s.ledger.AddOrUpdateBudgetCategory(*req.Category, budget)
	log.FromContext(r.Context()).InfoContext(r.Context(), "Budget category set",
		log.FieldCategory, *req.Category,
		log.FieldAmount, budget)
	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "Budget added for " + *req.Category,
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	score := analytics.HealthScore(s.ledger.Snapshot())
	writeJSON(w, r, http.StatusOK, map[string]any{
		"score":  score,
		"status": analytics.HealthStatus(score),
	})
}

func (s *Server) handleDebtPlan(w http.ResponseWriter, r *http.Request) {
	method := analytics.MethodAvalanche
	if m := strings.TrimSpace(r.URL.Query().Get("method")); m != "" && !strings.EqualFold(m, analytics.MethodAvalanche) {
		method = analytics.MethodSnowball
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"method": method,
		"plan":   analytics.DebtPayoffPlan(s.ledger.Snapshot(), method),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, "ask", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		fail(w, r, "ask", &core.ValidationError{Field: "question", Reason: "missing value"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{
		"answer": analytics.AnswerQuestion(req.Question),
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Persist(r.Context()); err != nil {
		fail(w, r, log.OpPersist, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "Data saved to " + s.ledger.Location(),
	})
}
