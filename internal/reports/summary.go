package reports

import "libretto/internal/core"

// Summary holds the four headline dashboard metrics.
type Summary struct {
	TotalRevenue    core.Money `json:"total_revenue_cents"`
	TotalExpenses   core.Money `json:"total_expenses_cents"`
	Profit          core.Money `json:"profit_cents"`
	PendingPayments core.Money `json:"pending_payments_cents"`
}

// Summarize computes the dashboard metrics. Revenue, expenses and profit come
// from the window-filtered records; pending payments deliberately come from
// the full sale list, because outstanding receivables are a point-in-time
// fact independent of the reporting period. Empty inputs yield zero metrics.
func Summarize(windowSales []core.Sale, windowExpenses []core.Expense, allSales []core.Sale) Summary {
	var s Summary
	for _, sale := range windowSales {
		if sale.Status == core.StatusPaid {
			s.TotalRevenue = s.TotalRevenue.Add(sale.Total())
		}
	}
	for _, e := range windowExpenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}
	s.Profit = s.TotalRevenue.Sub(s.TotalExpenses)
	for _, sale := range allSales {
		if sale.Status == core.StatusPending {
			s.PendingPayments = s.PendingPayments.Add(sale.Total())
		}
	}
	return s
}
