package http

import (
	"fmt"
	"net/http"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/services"
)

type transactionRequest struct {
	CategoryID  int64   `json:"categoryId"`
	Amount      string  `json:"amount"`
	Date        string  `json:"date"`
	Description *string `json:"description"`
}

type transactionPatchRequest struct {
	CategoryID  *int64  `json:"categoryId"`
	Amount      *string `json:"amount"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	in := services.TransactionInput{
		CategoryID: req.CategoryID,
		Amount:     amount,
		Date:       date,
	}
	if req.Description != nil {
		in.Description = sanitizeInput(*req.Description)
	}

	created, err := s.svc.Transactions.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateForTransaction(userID(r), created.Date)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := parseOptionalInt(r, "month")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	year, err := parseOptionalInt(r, "year")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	txns, err := s.svc.Transactions.List(r.Context(), userID(r), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	txn, err := s.svc.Transactions.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req transactionPatchRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	upd := services.TransactionUpdate{CategoryID: req.CategoryID}
	if req.Amount != nil {
		amount, err := core.ParseAmount(*req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		upd.Amount = &amount
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		upd.Date = &date
	}
	if req.Description != nil {
		desc := sanitizeInput(*req.Description)
		upd.Description = &desc
	}

	// Fetch first so a cross-month date change invalidates both periods.
	before, err := s.svc.Transactions.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.svc.Transactions.Update(r.Context(), userID(r), id, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateForTransaction(userID(r), before.Date)
	s.invalidateForTransaction(userID(r), updated.Date)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	before, err := s.svc.Transactions.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.svc.Transactions.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateForTransaction(userID(r), before.Date)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	month, err := parseOptionalInt(r, "month")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	year, err := parseOptionalInt(r, "year")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	key := statsCacheKey(userID(r), month, year)
	if view, ok := s.statsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, view)
		return
	}

	view, err := s.svc.Stats.Stats(r.Context(), userID(r), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.statsCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	month, err := parseOptionalInt(r, "month")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	year, err := parseOptionalInt(r, "year")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if month == nil || year == nil {
		badRequest(w, "month and year are required")
		return
	}

	csv, err := s.svc.Export.ExportCSV(r.Context(), userID(r), *month, *year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("transacciones-%04d-%02d.csv", *year, *month)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}
