package http

import (
	"net/http"

	"github.com/GeX90/gestorapp-backend/internal/core"
)

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type categoryPatchRequest struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.svc.Categories.Create(r.Context(), userID(r), sanitizeInput(req.Name), core.CategoryType(req.Type))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Categories.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleSeedCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Categories.SeedDefaults(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	writeJSON(w, http.StatusCreated, cats)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	cat, err := s.svc.Categories.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req categoryPatchRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	var name *string
	if req.Name != nil {
		clean := sanitizeInput(*req.Name)
		name = &clean
	}
	var typ *core.CategoryType
	if req.Type != nil {
		t := core.CategoryType(*req.Type)
		typ = &t
	}

	updated, err := s.svc.Categories.Update(r.Context(), userID(r), id, name, typ)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.svc.Categories.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
