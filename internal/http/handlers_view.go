package http

import (
	"net/http"

	"libretto/internal/core"
)

type viewPayload struct {
	View core.View `json:"view"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, viewPayload{View: s.ledger.View()})
	case http.MethodPut:
		var in viewPayload
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.ledger.SetView(r.Context(), in.View); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, viewPayload{View: in.View})
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}
