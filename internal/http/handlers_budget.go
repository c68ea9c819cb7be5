package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GeX90/gestorapp-backend/internal/core"
)

type budgetRequest struct {
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	Amount  string `json:"amount"`
	AlertAt *int   `json:"alertAt"`
}

type budgetPatchRequest struct {
	Amount  *string `json:"amount"`
	AlertAt *int    `json:"alertAt"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.svc.Budgets.Create(r.Context(), userID(r), req.Month, req.Year, amount, req.AlertAt)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateBudget(userID(r), req.Year, req.Month)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Budgets.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if views == nil {
		views = []core.BudgetView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCurrentBudget(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Budgets.Current(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.budgetPathPeriod(w, r)
	if !ok {
		return
	}

	key := budgetCacheKey(userID(r), year, month)
	if view, found := s.budgetCache.Get(key); found {
		writeJSON(w, http.StatusOK, view)
		return
	}

	view, err := s.svc.Budgets.Evaluate(r.Context(), userID(r), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.budgetCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.budgetPathPeriod(w, r)
	if !ok {
		return
	}

	var req budgetPatchRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed, err := core.ParseAmount(*req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		amount = &parsed
	}

	view, err := s.svc.Budgets.Update(r.Context(), userID(r), month, year, amount, req.AlertAt)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateBudget(userID(r), year, month)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.budgetPathPeriod(w, r)
	if !ok {
		return
	}

	if err := s.svc.Budgets.Delete(r.Context(), userID(r), month, year); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateBudget(userID(r), year, month)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) budgetPathPeriod(w http.ResponseWriter, r *http.Request) (year, month int, ok bool) {
	y, err := parsePathInt(r, "year")
	if err != nil {
		badRequest(w, err.Error())
		return 0, 0, false
	}
	m, err := parsePathInt(r, "month")
	if err != nil {
		badRequest(w, err.Error())
		return 0, 0, false
	}
	return int(y), int(m), true
}
