// Package reports derives dashboard metrics, the cumulative-profit series,
// and the profit-and-loss statement from the record collections. Everything
// here is a pure function of its inputs.
package reports

import (
	"errors"
	"time"

	"libretto/internal/core"
)

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	PeriodYear   Period = "1y"
	PeriodAll    Period = "all"
)

// Period selects the reporting window relative to "now".
type Period string

var ErrInvalidPeriod = errors.New("invalid period")

func (p Period) Valid() bool {
	switch p {
	case Period7Days, Period30Days, PeriodYear, PeriodAll:
		return true
	}
	return false
}

// Cutoff returns the first calendar day inside the window. PeriodAll has no
// lower bound and returns the zero date, which every record date is on or
// after.
func (p Period) Cutoff(now time.Time) core.Date {
	switch p {
	case Period7Days:
		return core.DateOf(now.AddDate(0, 0, -7))
	case Period30Days:
		return core.DateOf(now.AddDate(0, 0, -30))
	case PeriodYear:
		return core.DateOf(now.AddDate(-1, 0, 0))
	default:
		return core.Date{}
	}
}

// SalesSince returns the sales dated on or after cutoff, in input order.
func SalesSince(sales []core.Sale, cutoff core.Date) []core.Sale {
	out := make([]core.Sale, 0, len(sales))
	for _, s := range sales {
		if s.Date.OnOrAfter(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// ExpensesSince returns the expenses dated on or after cutoff, in input order.
func ExpensesSince(expenses []core.Expense, cutoff core.Date) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.OnOrAfter(cutoff) {
			out = append(out, e)
		}
	}
	return out
}
