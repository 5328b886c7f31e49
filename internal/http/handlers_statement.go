package http

import (
	"encoding/json"
	"net/http"

	applog "libretto/internal/log"
	"libretto/internal/reports"
)

type statementResponse struct {
	Period reports.Period `json:"period"`
	reports.Statement
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	period, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cutoff := period.Cutoff(nowFunc())
	key := cacheKey(period, cutoff, s.ledger.Revision())
	if raw, ok := s.statementCache.Get(key); ok {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Statement cache hit", applog.FieldPeriod, string(period))
		writeRawJSON(w, http.StatusOK, raw)
		return
	}

	resp := statementResponse{
		Period:    period,
		Statement: reports.BuildStatement(s.ledger.Sales(), s.ledger.Expenses(), cutoff),
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Statement encode failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "encoding failed")
		return
	}
	s.statementCache.Set(key, raw)
	writeRawJSON(w, http.StatusOK, raw)
}
