package reports

import (
	"sort"

	"libretto/internal/core"
)

// RecentActivities merges sales and expenses into one tagged stream sorted by
// date descending and returns the newest n. Ids break date ties, so two
// records on the same day keep creation order (newest first).
func RecentActivities(sales []core.Sale, expenses []core.Expense, n int) []core.Activity {
	merged := make([]core.Activity, 0, len(sales)+len(expenses))
	for _, s := range sales {
		merged = append(merged, core.SaleActivity(s))
	}
	for _, e := range expenses {
		merged = append(merged, core.ExpenseActivity(e))
	}
	sort.Slice(merged, func(i, j int) bool {
		di, dj := merged[i].Date(), merged[j].Date()
		if !di.Equal(dj.Time) {
			return di.After(dj.Time)
		}
		return merged[i].ID() > merged[j].ID()
	})
	if n > 0 && len(merged) > n {
		merged = merged[:n]
	}
	return merged
}
