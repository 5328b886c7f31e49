package reports

import (
	"sort"

	"libretto/internal/core"
)

// MinTrendPoints is the smallest series that can be drawn as a trend line.
const MinTrendPoints = 2

type ProfitPoint struct {
	Date   core.Date  `json:"date"`
	Profit core.Money `json:"profit_cents"` // cumulative up to and including this day
}

// ProfitSeries is the running-balance series for the profit trend chart,
// one point per day with activity, in chronological order.
type ProfitSeries struct {
	Points []ProfitPoint `json:"points"`
}

// Sufficient reports whether the series has enough points for a trend line.
// Callers render a placeholder otherwise; a short series is not an error.
func (s ProfitSeries) Sufficient() bool {
	return len(s.Points) >= MinTrendPoints
}

// AxisRange returns the y-axis bounds for rendering. The range always spans
// zero so the chart keeps its baseline even when every point is on one side.
func (s ProfitSeries) AxisRange() (min, max core.Money) {
	for _, p := range s.Points {
		if p.Profit.Cents < min.Cents {
			min = p.Profit
		}
		if p.Profit.Cents > max.Cents {
			max = p.Profit
		}
	}
	return min, max
}

// BuildProfitSeries buckets sales and expenses by calendar day, then walks
// the days in order accumulating revenue minus expense. Sales count their
// line total regardless of payment status; the paid-only view belongs to the
// statement, not the trend.
func BuildProfitSeries(sales []core.Sale, expenses []core.Expense) ProfitSeries {
	type bucket struct {
		revenue int64
		expense int64
	}
	buckets := make(map[string]*bucket)
	day := func(d core.Date) *bucket {
		key := d.String()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		return b
	}

	for _, s := range sales {
		day(s.Date).revenue += s.Total().Cents
	}
	for _, e := range expenses {
		day(e.Date).expense += e.Amount.Cents
	}

	// ISO dates sort lexicographically in chronological order.
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var series ProfitSeries
	var cumulative int64
	for _, k := range keys {
		b := buckets[k]
		cumulative += b.revenue - b.expense
		d, _ := core.ParseDate(k)
		series.Points = append(series.Points, ProfitPoint{
			Date:   d,
			Profit: core.Money{Cents: cumulative},
		})
	}
	return series
}
