package reports

import (
	"testing"
	"time"

	"libretto/internal/core"
)

func mockSales() []core.Sale {
	vendor := func(id int64) *int64 { return &id }
	return []core.Sale{
		{ID: 1, Item: "Chocolate Cheesecake", Quantity: 2, Price: core.Money{Cents: 2500},
			Date: core.NewDate(2024, 7, 20), Status: core.StatusPaid, VendorID: vendor(1)},
		{ID: 2, Item: "Strawberry Cheesecake", Quantity: 1, Price: core.Money{Cents: 3000},
			Date: core.NewDate(2024, 7, 21), Status: core.StatusPending, VendorID: vendor(2)},
		{ID: 3, Item: "Blueberry Cheesecake", Quantity: 5, Price: core.Money{Cents: 2800},
			Date: core.NewDate(2024, 7, 22), Status: core.StatusPaid, VendorID: vendor(1)},
	}
}

func mockExpenses() []core.Expense {
	return []core.Expense{
		{ID: 1, Description: "Cream Cheese", Category: core.CategoryIngredients,
			Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 7, 19)},
		{ID: 2, Description: "8-inch containers", Category: core.CategoryContainers,
			Amount: core.Money{Cents: 3000}, Date: core.NewDate(2024, 7, 18)},
		{ID: 3, Description: "Electricity Bill", Category: core.CategoryMiscellaneous,
			Amount: core.Money{Cents: 10000}, Date: core.NewDate(2024, 7, 20)},
		{ID: 4, Description: "Sugar", Category: core.CategoryIngredients,
			Amount: core.Money{Cents: 2000}, Date: core.NewDate(2024, 7, 21)},
	}
}

func TestPeriodCutoff(t *testing.T) {
	now := time.Date(2024, 7, 22, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		period Period
		want   string
	}{
		{Period7Days, "2024-07-15"},
		{Period30Days, "2024-06-22"},
		{PeriodYear, "2023-07-22"},
	}
	for _, tc := range cases {
		if got := tc.period.Cutoff(now); got.String() != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.period, got, tc.want)
		}
	}
	if !PeriodAll.Cutoff(now).IsZero() {
		t.Fatalf("all-time cutoff must be the zero date")
	}
	if Period("90d").Valid() {
		t.Fatalf("unknown token must be invalid")
	}
}

func TestFilterIsDateOnly(t *testing.T) {
	// "Now" late in the day; a sale dated exactly on the cutoff day stays in.
	now := time.Date(2024, 7, 22, 23, 0, 0, 0, time.UTC)
	cutoff := Period7Days.Cutoff(now)
	sales := []core.Sale{
		{ID: 1, Date: core.NewDate(2024, 7, 15)}, // exactly 7 days ago
		{ID: 2, Date: core.NewDate(2024, 7, 14)}, // one day too old
	}
	got := SalesSince(sales, cutoff)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only the boundary sale, got %+v", got)
	}
}

func TestSummarizeMockData(t *testing.T) {
	s := Summarize(mockSales(), mockExpenses(), mockSales())

	// period=all: revenue 2x$25 + 5x$28 = $190, pending 1x$30
	if s.TotalRevenue.Cents != 19000 {
		t.Fatalf("total revenue: got %d, want 19000", s.TotalRevenue.Cents)
	}
	if s.TotalExpenses.Cents != 20000 {
		t.Fatalf("total expenses: got %d, want 20000", s.TotalExpenses.Cents)
	}
	if s.Profit.Cents != s.TotalRevenue.Cents-s.TotalExpenses.Cents {
		t.Fatalf("profit must equal revenue minus expenses")
	}
	if s.PendingPayments.Cents != 3000 {
		t.Fatalf("pending payments: got %d, want 3000", s.PendingPayments.Cents)
	}
}

func TestSummarizeEmptyWindowIsZero(t *testing.T) {
	// Every record is older than 7 days: filtered sets are empty, metrics zero.
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cutoff := Period7Days.Cutoff(now)
	sales := SalesSince(mockSales(), cutoff)
	expenses := ExpensesSince(mockExpenses(), cutoff)
	if len(sales) != 0 || len(expenses) != 0 {
		t.Fatalf("expected empty window, got %d sales, %d expenses", len(sales), len(expenses))
	}

	s := Summarize(sales, expenses, nil)
	if s.TotalRevenue.Cents != 0 || s.TotalExpenses.Cents != 0 || s.Profit.Cents != 0 {
		t.Fatalf("empty window must yield zero metrics: %+v", s)
	}
}

func TestPendingInvariantUnderPeriod(t *testing.T) {
	all := mockSales()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, p := range []Period{Period7Days, Period30Days, PeriodYear, PeriodAll} {
		cutoff := p.Cutoff(now)
		s := Summarize(SalesSince(all, cutoff), nil, all)
		if s.PendingPayments.Cents != 3000 {
			t.Fatalf("period %s: pending payments changed to %d", p, s.PendingPayments.Cents)
		}
	}
}

func TestSummarizeAllPendingRevenueZero(t *testing.T) {
	sales := []core.Sale{
		{ID: 1, Quantity: 3, Price: core.Money{Cents: 1000}, Status: core.StatusPending},
		{ID: 2, Quantity: 1, Price: core.Money{Cents: 500}, Status: core.StatusPending},
	}
	s := Summarize(sales, nil, sales)
	if s.TotalRevenue.Cents != 0 {
		t.Fatalf("pending sales contribute zero revenue, got %d", s.TotalRevenue.Cents)
	}
	if s.PendingPayments.Cents != 3500 {
		t.Fatalf("pending payments: got %d, want 3500", s.PendingPayments.Cents)
	}
}

func TestProfitSeriesSingleDay(t *testing.T) {
	day := core.NewDate(2024, 7, 20)
	series := BuildProfitSeries(
		[]core.Sale{{ID: 1, Quantity: 2, Price: core.Money{Cents: 1000}, Date: day, Status: core.StatusPaid}},
		[]core.Expense{{ID: 1, Amount: core.Money{Cents: 500}, Date: day}},
	)
	if len(series.Points) != 1 {
		t.Fatalf("expected one point, got %d", len(series.Points))
	}
	p := series.Points[0]
	if p.Date.String() != "2024-07-20" || p.Profit.Cents != 1500 {
		t.Fatalf("unexpected point %+v", p)
	}
	if series.Sufficient() {
		t.Fatalf("one point is not enough for a trend line")
	}
}

func TestProfitSeriesCumulative(t *testing.T) {
	series := BuildProfitSeries(mockSales(), mockExpenses())
	if !series.Sufficient() {
		t.Fatalf("expected a drawable series, got %d points", len(series.Points))
	}

	// Dates ascending.
	for i := 1; i < len(series.Points); i++ {
		if !series.Points[i].Date.After(series.Points[i-1].Date.Time) {
			t.Fatalf("points out of order at %d: %s then %s",
				i, series.Points[i-1].Date, series.Points[i].Date)
		}
	}

	// Each step equals that day's revenue minus expense, reconstructed here
	// independently of the builder's bucketing.
	dayNet := func(d core.Date) int64 {
		var net int64
		for _, s := range mockSales() {
			if s.Date.Equal(d.Time) {
				net += s.Total().Cents
			}
		}
		for _, e := range mockExpenses() {
			if e.Date.Equal(d.Time) {
				net -= e.Amount.Cents
			}
		}
		return net
	}
	var prev int64
	for i, p := range series.Points {
		step := p.Profit.Cents - prev
		if step != dayNet(p.Date) {
			t.Fatalf("point %d (%s): step %d, want %d", i, p.Date, step, dayNet(p.Date))
		}
		prev = p.Profit.Cents
	}
}

func TestAxisRangeIncludesZero(t *testing.T) {
	cases := []struct {
		name    string
		profits []int64
		min     int64
		max     int64
	}{
		{"all positive", []int64{100, 300}, 0, 300},
		{"all negative", []int64{-200, -50}, -200, 0},
		{"mixed", []int64{-100, 250}, -100, 250},
		{"empty", nil, 0, 0},
	}
	for _, tc := range cases {
		var s ProfitSeries
		for i, p := range tc.profits {
			s.Points = append(s.Points, ProfitPoint{
				Date:   core.NewDate(2024, 7, 1+i),
				Profit: core.Money{Cents: p},
			})
		}
		min, max := s.AxisRange()
		if min.Cents != tc.min || max.Cents != tc.max {
			t.Fatalf("%s: got [%d, %d], want [%d, %d]", tc.name, min.Cents, max.Cents, tc.min, tc.max)
		}
	}
}

func TestBuildStatement(t *testing.T) {
	st := BuildStatement(mockSales(), mockExpenses(), core.Date{})

	// Only paid sales become revenue lines; all expenses qualify.
	if len(st.Revenue) != 2 {
		t.Fatalf("expected 2 revenue lines, got %d", len(st.Revenue))
	}
	if len(st.Expenses) != 4 {
		t.Fatalf("expected 4 expense lines, got %d", len(st.Expenses))
	}
	if st.TotalRevenue.Cents != 19000 {
		t.Fatalf("total revenue: got %d, want 19000", st.TotalRevenue.Cents)
	}
	if st.TotalExpenses.Cents != 20000 {
		t.Fatalf("total expenses: got %d, want 20000", st.TotalExpenses.Cents)
	}
	if st.NetProfit.Cents != -1000 {
		t.Fatalf("net profit: got %d, want -1000", st.NetProfit.Cents)
	}
	for _, line := range st.Revenue {
		if line.Label == "Strawberry Cheesecake" {
			t.Fatalf("pending sale leaked into the statement")
		}
	}
}

func TestBuildStatementWithCutoff(t *testing.T) {
	cutoff := core.NewDate(2024, 7, 21)
	st := BuildStatement(mockSales(), mockExpenses(), cutoff)
	// Paid sales on/after 7-21: only the blueberry sale (7-22).
	if len(st.Revenue) != 1 || st.TotalRevenue.Cents != 14000 {
		t.Fatalf("unexpected revenue lines: %+v", st.Revenue)
	}
	// Expenses on/after 7-21: sugar only.
	if len(st.Expenses) != 1 || st.TotalExpenses.Cents != 2000 {
		t.Fatalf("unexpected expense lines: %+v", st.Expenses)
	}
	if st.NetProfit.Cents != 12000 {
		t.Fatalf("net profit: got %d, want 12000", st.NetProfit.Cents)
	}
}

func TestRecentActivities(t *testing.T) {
	got := RecentActivities(mockSales(), mockExpenses(), 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 activities, got %d", len(got))
	}
	// Newest first.
	for i := 1; i < len(got); i++ {
		if got[i].Date().After(got[i-1].Date().Time) {
			t.Fatalf("activities out of order at %d", i)
		}
	}
	first := got[0]
	if first.Kind != core.ActivitySale || first.Sale.Item != "Blueberry Cheesecake" {
		t.Fatalf("expected the 7-22 sale first, got %+v", first)
	}
	// Every entry carries exactly one record, matching its tag.
	for i, a := range got {
		saleSet := a.Sale != nil
		expenseSet := a.Expense != nil
		if saleSet == expenseSet {
			t.Fatalf("activity %d has inconsistent payload", i)
		}
		if (a.Kind == core.ActivitySale) != saleSet {
			t.Fatalf("activity %d kind does not match payload", i)
		}
	}
}
