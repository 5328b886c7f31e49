package http

import (
	"encoding/json"
	"net/http"

	"libretto/internal/core"
	applog "libretto/internal/log"
	"libretto/internal/reports"
)

const recentActivityLimit = 5

type trendPayload struct {
	Points     []reports.ProfitPoint `json:"points"`
	Sufficient bool                  `json:"sufficient"`
	AxisMin    core.Money            `json:"axis_min_cents"`
	AxisMax    core.Money            `json:"axis_max_cents"`
}

type activityPayload struct {
	Kind       core.ActivityKind `json:"kind"`
	ID         int64             `json:"id"`
	Date       core.Date         `json:"date"`
	Label      string            `json:"label"`
	Amount     core.Money        `json:"amount_cents"`
	Display    string            `json:"display"`
	VendorName string            `json:"vendor_name,omitempty"`
}

type dashboardResponse struct {
	Period           reports.Period    `json:"period"`
	Summary          reports.Summary   `json:"summary"`
	Trend            trendPayload      `json:"trend"`
	RecentActivities []activityPayload `json:"recent_activities"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
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
	if raw, ok := s.dashboardCache.Get(key); ok {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard cache hit", applog.FieldPeriod, string(period))
		writeRawJSON(w, http.StatusOK, raw)
		return
	}

	allSales := s.ledger.Sales()
	allExpenses := s.ledger.Expenses()
	windowSales := reports.SalesSince(allSales, cutoff)
	windowExpenses := reports.ExpensesSince(allExpenses, cutoff)

	series := reports.BuildProfitSeries(windowSales, windowExpenses)
	axisMin, axisMax := series.AxisRange()

	resp := dashboardResponse{
		Period:  period,
		Summary: reports.Summarize(windowSales, windowExpenses, allSales),
		Trend: trendPayload{
			Points:     series.Points,
			Sufficient: series.Sufficient(),
			AxisMin:    axisMin,
			AxisMax:    axisMax,
		},
		// The activity feed always shows the newest records; only the
		// totals and the chart respect the window.
		RecentActivities: s.activityPayloads(reports.RecentActivities(allSales, allExpenses, recentActivityLimit)),
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard encode failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "encoding failed")
		return
	}
	s.dashboardCache.Set(key, raw)
	writeRawJSON(w, http.StatusOK, raw)
}

// activityPayloads resolves vendor references for display. A dangling or
// missing reference degrades to the "N/A" sentinel.
func (s *Server) activityPayloads(activities []core.Activity) []activityPayload {
	out := make([]activityPayload, 0, len(activities))
	for _, a := range activities {
		p := activityPayload{
			Kind:   a.Kind,
			ID:     a.ID(),
			Date:   a.Date(),
			Amount: a.Amount(),
		}
		if a.Kind == core.ActivitySale {
			p.Label = a.Sale.Item
			p.Display = "+" + p.Amount.String()
			p.VendorName = s.ledger.VendorName(a.Sale.VendorID)
		} else {
			p.Label = a.Expense.Description
			p.Display = "-" + p.Amount.String()
		}
		out = append(out, p)
	}
	return out
}
