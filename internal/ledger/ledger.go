// Package ledger owns the authoritative in-memory record collections and
// their persistence. Every mutation rewrites the whole collection under its
// key-value store key; a failed write is logged and the in-memory state kept,
// so the ledger is optimistically consistent with memory.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"libretto/internal/core"
	"libretto/internal/kv"
	applog "libretto/internal/log"
)

// logTo scopes the process-wide logger to this package's component.
func logTo() *slog.Logger {
	return slog.Default().With(applog.FieldComponent, applog.ComponentLedger)
}

type Ledger struct {
	mu    sync.Mutex
	store kv.Store

	sales    []core.Sale
	expenses []core.Expense
	vendors  []core.Vendor
	view     core.View

	nextID   int64
	revision int64
}

// Open loads all collections from the store. A missing key, an empty
// collection, or a document that fails to parse falls back to the seed
// dataset so the application never starts empty.
func Open(ctx context.Context, store kv.Store) *Ledger {
	l := &Ledger{store: store, view: core.ViewDashboard}

	loadCollection(ctx, store, kv.KeySales, &l.sales, SeedSales)
	loadCollection(ctx, store, kv.KeyExpenses, &l.expenses, SeedExpenses)
	loadCollection(ctx, store, kv.KeyVendors, &l.vendors, SeedVendors)

	if raw, err := store.Get(ctx, kv.KeyView); err == nil {
		var v core.View
		if err := json.Unmarshal(raw, &v); err == nil && v.Valid() {
			l.view = v
		} else {
			logTo().WarnContext(ctx, "Persisted view invalid, using default", applog.FieldKey, kv.KeyView)
		}
	}

	l.nextID = maxID(l.sales, l.expenses, l.vendors) + 1
	logTo().InfoContext(ctx, "Ledger loaded",
		"sales", len(l.sales),
		"expenses", len(l.expenses),
		"vendors", len(l.vendors),
		"next_id", l.nextID,
		applog.FieldRevision, l.revision)
	return l
}

func loadCollection[T any](ctx context.Context, store kv.Store, key string, dst *[]T, seed func() []T) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if err != kv.ErrNotFound {
			logTo().WarnContext(ctx, "Collection read failed, using seed data", applog.FieldKey, key, applog.FieldError, err)
		}
		*dst = seed()
		return
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logTo().WarnContext(ctx, "Collection parse failed, using seed data", applog.FieldKey, key, applog.FieldError, err)
		*dst = seed()
		return
	}
	if len(items) == 0 {
		*dst = seed()
		return
	}
	*dst = items
}

func maxID(sales []core.Sale, expenses []core.Expense, vendors []core.Vendor) int64 {
	var max int64
	for _, s := range sales {
		if s.ID > max {
			max = s.ID
		}
	}
	for _, e := range expenses {
		if e.ID > max {
			max = e.ID
		}
	}
	for _, v := range vendors {
		if v.ID > max {
			max = v.ID
		}
	}
	return max
}

// Revision increases on every mutation. Derived-view caches key on it.
func (l *Ledger) Revision() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

// persist writes a collection back to the store. Failures are logged and
// swallowed: the in-memory state stays authoritative.
func (l *Ledger) persist(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		logTo().ErrorContext(ctx, "Collection encode failed", applog.FieldKey, key, applog.FieldError, err)
		return
	}
	if err := l.store.Set(ctx, key, raw); err != nil {
		logTo().WarnContext(ctx, "Collection persist failed, keeping in-memory state", applog.FieldKey, key, applog.FieldError, err)
	}
}

// allocID hands out a fresh id. Ids are unique across all collections and
// strictly increasing, so they double as stable sort tie-breaks.
func (l *Ledger) allocID() int64 {
	id := l.nextID
	l.nextID++
	return id
}

// Sales returns a copy of the sale collection.
func (l *Ledger) Sales() []core.Sale {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Sale(nil), l.sales...)
}

func (l *Ledger) AddSale(ctx context.Context, s core.Sale) (core.Sale, error) {
	if err := s.Validate(); err != nil {
		return core.Sale{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s.ID = l.allocID()
	l.sales = append(l.sales, s)
	l.revision++
	l.persist(ctx, kv.KeySales, l.sales)
	logTo().InfoContext(ctx, "Sale recorded", applog.FieldSaleID, s.ID, applog.FieldItem, s.Item, applog.FieldAmountCents, s.Total().Cents)
	return s, nil
}

// UpdateSale replaces the sale matching s.ID. Unknown ids are a no-op and
// report false.
func (l *Ledger) UpdateSale(ctx context.Context, s core.Sale) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.sales {
		if l.sales[i].ID == s.ID {
			l.sales[i] = s
			l.revision++
			l.persist(ctx, kv.KeySales, l.sales)
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) DeleteSale(ctx context.Context, id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.sales {
		if l.sales[i].ID == id {
			l.sales = append(l.sales[:i], l.sales[i+1:]...)
			l.revision++
			l.persist(ctx, kv.KeySales, l.sales)
			return true
		}
	}
	return false
}

// Expenses returns a copy of the expense collection.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Expense(nil), l.expenses...)
}

func (l *Ledger) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e.ID = l.allocID()
	l.expenses = append(l.expenses, e)
	l.revision++
	l.persist(ctx, kv.KeyExpenses, l.expenses)
	logTo().InfoContext(ctx, "Expense recorded", applog.FieldExpenseID, e.ID, applog.FieldDescription, e.Description, applog.FieldAmountCents, e.Amount.Cents)
	return e, nil
}

func (l *Ledger) UpdateExpense(ctx context.Context, e core.Expense) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.expenses {
		if l.expenses[i].ID == e.ID {
			l.expenses[i] = e
			l.revision++
			l.persist(ctx, kv.KeyExpenses, l.expenses)
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) DeleteExpense(ctx context.Context, id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
			l.revision++
			l.persist(ctx, kv.KeyExpenses, l.expenses)
			return true
		}
	}
	return false
}

// Vendors returns a copy of the vendor collection, active and inactive.
func (l *Ledger) Vendors() []core.Vendor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Vendor(nil), l.vendors...)
}

func (l *Ledger) AddVendor(ctx context.Context, v core.Vendor) (core.Vendor, error) {
	if err := v.Validate(); err != nil {
		return core.Vendor{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v.ID = l.allocID()
	v.Active = true
	l.vendors = append(l.vendors, v)
	l.revision++
	l.persist(ctx, kv.KeyVendors, l.vendors)
	logTo().InfoContext(ctx, "Vendor added", applog.FieldVendorID, v.ID, "name", v.Name)
	return v, nil
}

func (l *Ledger) UpdateVendor(ctx context.Context, v core.Vendor) (bool, error) {
	if err := v.Validate(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.vendors {
		if l.vendors[i].ID == v.ID {
			l.vendors[i] = v
			l.revision++
			l.persist(ctx, kv.KeyVendors, l.vendors)
			return true, nil
		}
	}
	return false, nil
}

// DeleteVendor soft-deletes: the record stays so historical sales keep a
// valid reference.
func (l *Ledger) DeleteVendor(ctx context.Context, id int64) bool {
	return l.setVendorActive(ctx, id, false)
}

// RestoreVendor reverses a soft delete.
func (l *Ledger) RestoreVendor(ctx context.Context, id int64) bool {
	return l.setVendorActive(ctx, id, true)
}

func (l *Ledger) setVendorActive(ctx context.Context, id int64, active bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.vendors {
		if l.vendors[i].ID == id {
			l.vendors[i].Active = active
			l.revision++
			l.persist(ctx, kv.KeyVendors, l.vendors)
			return true
		}
	}
	return false
}

// VendorName resolves a sale's vendor reference for display. A nil or
// dangling reference degrades to the "N/A" sentinel, never an error.
func (l *Ledger) VendorName(id *int64) string {
	if id == nil {
		return core.UnknownVendor
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, v := range l.vendors {
		if v.ID == *id {
			return v.Name
		}
	}
	return core.UnknownVendor
}

// View returns the persisted UI view selector.
func (l *Ledger) View() core.View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

func (l *Ledger) SetView(ctx context.Context, v core.View) error {
	if !v.Valid() {
		return core.ErrInvalidView
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = v
	l.persist(ctx, kv.KeyView, v)
	return nil
}
