package http

import (
	"net/http"

	"libretto/internal/core"
)

func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.Sales())
	case http.MethodPost:
		var in core.Sale
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.Item = sanitizeInput(in.Item)
		created, err := s.ledger.AddSale(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleSaleByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r.URL.Path, "/api/sales/")
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
		var in core.Sale
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = id
		in.Item = sanitizeInput(in.Item)
		ok, err := s.ledger.UpdateSale(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "sale not found")
			return
		}
		writeJSON(w, http.StatusOK, in)
	case http.MethodDelete:
		if !s.ledger.DeleteSale(r.Context(), id) {
			writeError(w, http.StatusNotFound, "sale not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}
