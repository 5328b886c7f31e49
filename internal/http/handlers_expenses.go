package http

import (
	"net/http"

	"libretto/internal/core"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.Expenses())
	case http.MethodPost:
		var in core.Expense
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.Description = sanitizeInput(in.Description)
		created, err := s.ledger.AddExpense(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r.URL.Path, "/api/expenses/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if action != "" {
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var in core.Expense
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = id
		in.Description = sanitizeInput(in.Description)
		ok, err := s.ledger.UpdateExpense(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeJSON(w, http.StatusOK, in)
	case http.MethodDelete:
		if !s.ledger.DeleteExpense(r.Context(), id) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}
