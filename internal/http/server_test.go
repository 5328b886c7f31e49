package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"libretto/internal/core"
	"libretto/internal/kv"
	"libretto/internal/ledger"
	applog "libretto/internal/log"
	"libretto/internal/reports"
)

// setClock pins the handlers' clock for the duration of the test.
func setClock(t *testing.T, now time.Time) {
	t.Helper()
	old := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = old })
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := kv.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	led := ledger.Open(context.Background(), store)
	srv := NewServer(":0", led, applog.New(applog.DefaultConfig()), Options{})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestSalesCRUD(t *testing.T) {
	srv := newTestServer(t)

	// List returns the seed data.
	rr := do(t, srv, http.MethodGet, "/api/sales", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	var sales []core.Sale
	if err := json.Unmarshal(rr.Body.Bytes(), &sales); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(sales) == 0 {
		t.Fatal("expected seeded sales")
	}

	// Create.
	rr = do(t, srv, http.MethodPost, "/api/sales",
		`{"item":"Lemon Cheesecake","quantity":2,"price_cents":2600,"date":"2024-08-01","status":"Paid"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Sale
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected server-assigned id")
	}

	// Update.
	rr = do(t, srv, http.MethodPut, "/api/sales/"+itoa(created.ID),
		`{"item":"Lemon Cheesecake","quantity":3,"price_cents":2600,"date":"2024-08-01","status":"Paid"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}

	// Delete, then a second delete misses.
	rr = do(t, srv, http.MethodDelete, "/api/sales/"+itoa(created.ID), "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodDelete, "/api/sales/"+itoa(created.ID), "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", rr.Code)
	}
}

func TestSaleValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	// Not JSON at all.
	rr := do(t, srv, http.MethodPost, "/api/sales", `not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad body status=%d", rr.Code)
	}

	// Valid JSON, invalid record.
	rr = do(t, srv, http.MethodPost, "/api/sales",
		`{"item":"","quantity":0,"price_cents":-5,"date":"2024-08-01","status":"Paid"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid record status=%d", rr.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body.Error == "" {
		t.Fatalf("expected error envelope, got %s", rr.Body.String())
	}

	// Unknown id in path.
	rr = do(t, srv, http.MethodPut, "/api/sales/999999",
		`{"item":"x","quantity":1,"price_cents":100,"date":"2024-08-01","status":"Paid"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown id status=%d", rr.Code)
	}

	// Non-numeric id.
	rr = do(t, srv, http.MethodDelete, "/api/sales/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d", rr.Code)
	}
}

func TestRecordUnknownActionRejected(t *testing.T) {
	srv := newTestServer(t)

	// Only vendors expose a path action; sales and expenses take none.
	rr := do(t, srv, http.MethodPut, "/api/sales/1/archive",
		`{"item":"x","quantity":1,"price_cents":100,"date":"2024-08-01","status":"Paid"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("sale action status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodDelete, "/api/expenses/1/purge", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expense action status=%d", rr.Code)
	}

	// The plain forms still work.
	rr = do(t, srv, http.MethodDelete, "/api/expenses/1", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("plain delete status=%d", rr.Code)
	}
}

func TestSaleAcceptsDecimalPrice(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/sales",
		`{"item":"Key Lime Pie","quantity":1,"price_cents":"26.50","date":"2024-08-01","status":"Paid"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Sale
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.Price.Cents != 2650 {
		t.Fatalf("expected 2650 cents, got %d", created.Price.Cents)
	}
}

func TestVendorSoftDeleteAndRestore(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/vendors", `{"name":"Corner Cafe","contact":"corner@example.com"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Vendor
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if !created.Active {
		t.Fatal("new vendor must start active")
	}

	rr = do(t, srv, http.MethodDelete, "/api/vendors/"+itoa(created.ID), "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}

	// Still listed, just inactive.
	rr = do(t, srv, http.MethodGet, "/api/vendors?active=false", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	var inactive []core.Vendor
	if err := json.Unmarshal(rr.Body.Bytes(), &inactive); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	found := false
	for _, v := range inactive {
		if v.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("soft-deleted vendor missing from inactive list")
	}

	rr = do(t, srv, http.MethodPost, "/api/vendors/"+itoa(created.ID)+"/restore", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("restore status=%d", rr.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/dashboard?period=all", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if resp.Summary.Profit.Cents != resp.Summary.TotalRevenue.Cents-resp.Summary.TotalExpenses.Cents {
		t.Fatal("profit identity violated")
	}
	if len(resp.RecentActivities) == 0 {
		t.Fatal("expected recent activities from seed data")
	}
	for _, a := range resp.RecentActivities {
		if a.Kind == core.ActivitySale && a.VendorName == "" {
			t.Fatalf("sale activity %d missing vendor name", a.ID)
		}
	}

	// Unknown period token.
	rr = do(t, srv, http.MethodGet, "/api/dashboard?period=90d", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad period status=%d", rr.Code)
	}
}

func TestDashboardActivityFeedIgnoresWindow(t *testing.T) {
	srv := newTestServer(t)
	// Well past every seeded record: the 7d window is empty.
	setClock(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	rr := do(t, srv, http.MethodGet, "/api/dashboard?period=7d", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if resp.Summary.TotalRevenue.Cents != 0 || resp.Summary.TotalExpenses.Cents != 0 {
		t.Fatalf("expected empty window totals, got %+v", resp.Summary)
	}
	// The feed shows the newest records regardless of the window.
	if len(resp.RecentActivities) != recentActivityLimit {
		t.Fatalf("expected %d activities, got %d", recentActivityLimit, len(resp.RecentActivities))
	}
}

func TestDashboardWindowFollowsClock(t *testing.T) {
	srv := newTestServer(t)

	// All three seeded sales (Jul 20-22) sit inside the 7d window.
	setClock(t, time.Date(2024, 7, 23, 12, 0, 0, 0, time.UTC))
	rr := do(t, srv, http.MethodGet, "/api/dashboard?period=7d", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	var before dashboardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if before.Summary.TotalRevenue.Cents != 19000 {
		t.Fatalf("expected 19000 revenue in window, got %d", before.Summary.TotalRevenue.Cents)
	}

	// A month later, same revision: the cached payload must not be reused.
	setClock(t, time.Date(2024, 8, 23, 12, 0, 0, 0, time.UTC))
	rr = do(t, srv, http.MethodGet, "/api/dashboard?period=7d", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	var after dashboardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if after.Summary.TotalRevenue.Cents != 0 {
		t.Fatalf("window moved on but revenue stayed at %d", after.Summary.TotalRevenue.Cents)
	}
}

func TestCacheKeyVariesWithCutoff(t *testing.T) {
	a := cacheKey(reports.Period7Days, core.NewDate(2024, 7, 16), 3)
	b := cacheKey(reports.Period7Days, core.NewDate(2024, 7, 17), 3)
	if a == b {
		t.Fatal("keys for different cutoff days must differ")
	}
	if a == cacheKey(reports.Period7Days, core.NewDate(2024, 7, 16), 4) {
		t.Fatal("keys for different revisions must differ")
	}
}

func TestDashboardCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)

	first := do(t, srv, http.MethodGet, "/api/dashboard?period=all", "")
	if first.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", first.Code)
	}

	// A write bumps the revision; the next read must reflect it.
	rr := do(t, srv, http.MethodPost, "/api/expenses",
		`{"description":"Vanilla","category":"Ingredients","amount_cents":700,"date":"2024-08-02"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create expense status=%d body=%s", rr.Code, rr.Body.String())
	}

	second := do(t, srv, http.MethodGet, "/api/dashboard?period=all", "")
	if second.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", second.Code)
	}
	if first.Body.String() == second.Body.String() {
		t.Fatal("dashboard payload unchanged after write")
	}
}

func TestStatementEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/statement?period=all", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("statement status=%d", rr.Code)
	}
	var resp statementResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode statement: %v", err)
	}
	if resp.NetProfit.Cents != resp.TotalRevenue.Cents-resp.TotalExpenses.Cents {
		t.Fatal("net profit identity violated")
	}
	for _, line := range resp.Revenue {
		if line.Amount.Cents <= 0 {
			t.Fatalf("revenue line with non-positive amount: %+v", line)
		}
	}
}

func TestViewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/view", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get view status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "dashboard") {
		t.Fatalf("expected default view, got %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodPut, "/api/view", `{"view":"p&l"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put view status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodPut, "/api/view", `{"view":"bogus"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid view status=%d", rr.Code)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
