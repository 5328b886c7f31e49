package reports

import "libretto/internal/core"

type LineItem struct {
	Date   core.Date  `json:"date"`
	Label  string     `json:"label"`
	Amount core.Money `json:"amount_cents"`
}

// Statement is the profit-and-loss breakdown for a reporting window: one
// revenue line per paid sale, one expense line per expense, plus totals.
// It is a read-only projection, re-derivable at any time.
type Statement struct {
	Revenue       []LineItem `json:"revenue"`
	Expenses      []LineItem `json:"expenses"`
	TotalRevenue  core.Money `json:"total_revenue_cents"`
	TotalExpenses core.Money `json:"total_expenses_cents"`
	NetProfit     core.Money `json:"net_profit_cents"`
}

// BuildStatement assembles the P&L from the full collections and a cutoff.
// Sales qualify when paid and dated on or after the cutoff; expenses qualify
// on date alone, any category.
func BuildStatement(sales []core.Sale, expenses []core.Expense, cutoff core.Date) Statement {
	var st Statement
	for _, s := range sales {
		if s.Status != core.StatusPaid || !s.Date.OnOrAfter(cutoff) {
			continue
		}
		total := s.Total()
		st.Revenue = append(st.Revenue, LineItem{Date: s.Date, Label: s.Item, Amount: total})
		st.TotalRevenue = st.TotalRevenue.Add(total)
	}
	for _, e := range expenses {
		if !e.Date.OnOrAfter(cutoff) {
			continue
		}
		st.Expenses = append(st.Expenses, LineItem{Date: e.Date, Label: e.Description, Amount: e.Amount})
		st.TotalExpenses = st.TotalExpenses.Add(e.Amount)
	}
	st.NetProfit = st.TotalRevenue.Sub(st.TotalExpenses)
	return st
}
