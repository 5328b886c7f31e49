package http

import (
	"net/http"
	"strconv"
	"strings"

	"libretto/internal/core"
)

func (s *Server) handleVendors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		vendors := s.ledger.Vendors()
		if v := strings.TrimSpace(r.URL.Query().Get("active")); v != "" {
			want, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid active filter")
				return
			}
			filtered := make([]core.Vendor, 0, len(vendors))
			for _, vendor := range vendors {
				if vendor.Active == want {
					filtered = append(filtered, vendor)
				}
			}
			vendors = filtered
		}
		writeJSON(w, http.StatusOK, vendors)
	case http.MethodPost:
		var in core.Vendor
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.Name = sanitizeInput(in.Name)
		in.Contact = sanitizeInput(in.Contact)
		created, err := s.ledger.AddVendor(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleVendorByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r.URL.Path, "/api/vendors/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// POST /api/vendors/{id}/restore reverses a soft delete.
	if action == "restore" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, "POST")
			return
		}
		if !s.ledger.RestoreVendor(r.Context(), id) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if action != "" {
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var in core.Vendor
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = id
		in.Name = sanitizeInput(in.Name)
		in.Contact = sanitizeInput(in.Contact)
		ok, err := s.ledger.UpdateVendor(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeJSON(w, http.StatusOK, in)
	case http.MethodDelete:
		if !s.ledger.DeleteVendor(r.Context(), id) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}
