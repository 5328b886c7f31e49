package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	StatusPaid    SaleStatus = "Paid"
	StatusPending SaleStatus = "Pending"
)

const (
	CategoryIngredients   ExpenseCategory = "Ingredients"
	CategoryContainers    ExpenseCategory = "Plastic container"
	CategoryMiscellaneous ExpenseCategory = "Miscellaneous"
	CategoryOthers        ExpenseCategory = "Others"
)

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "L"
	UnitMilliliter Unit = "ml"
	UnitPieces     Unit = "pcs"
	UnitDozen      Unit = "dozen"
)

const (
	ViewDashboard  View = "dashboard"
	ViewSales      View = "sales"
	ViewExpenses   View = "expenses"
	ViewVendors    View = "vendors"
	ViewProfitLoss View = "p&l"
)

// UnknownVendor is the display value for a missing vendor reference.
const UnknownVendor = "N/A"

type (
	SaleStatus      string
	ExpenseCategory string
	Unit            string
	View            string

	// Date is a calendar date with no time-of-day component.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Containers tracks reusable packaging handed out with a sale.
	Containers struct {
		Given    int `json:"given"`
		Returned int `json:"returned"`
	}

	Sale struct {
		ID         int64      `json:"id"`
		Item       string     `json:"item"`
		Quantity   int        `json:"quantity"`
		Price      Money      `json:"price_cents"` // per unit
		Date       Date       `json:"date"`
		Status     SaleStatus `json:"status"`
		VendorID   *int64     `json:"vendor_id"`
		Containers Containers `json:"containers"`
	}

	Expense struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Category    ExpenseCategory `json:"category"`
		Amount      Money           `json:"amount_cents"` // total, not per unit
		Date        Date            `json:"date"`
		Quantity    float64         `json:"quantity,omitempty"` // only meaningful for Ingredients
		Unit        Unit            `json:"unit,omitempty"`
	}

	Vendor struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Active  bool   `json:"is_active"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrEmptyItem        = errors.New("empty item name")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty vendor name")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidStatus    = errors.New("invalid sale status")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrInvalidUnit      = errors.New("invalid unit")
	ErrInvalidView      = errors.New("invalid view")
)

// DateFormat is the wire and storage format for dates.
const DateFormat = "2006-01-02"

// NewDate creates a Date at midnight UTC for the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// OnOrAfter reports whether d falls on cutoff's day or later.
// A zero cutoff matches every date.
func (d Date) OnOrAfter(cutoff Date) bool {
	return !d.Time.Before(cutoff.Time)
}

func (d Date) String() string {
	return d.Time.Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Cents)
}

// UnmarshalJSON accepts either integer cents or a decimal string such as
// "12.34". Forms submit amounts as text; stored documents carry cents.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		cents, err := ParseDecimalToCents(s)
		if err != nil {
			return err
		}
		m.Cents = cents
		return nil
	}
	return json.Unmarshal(b, &m.Cents)
}

func (s SaleStatus) Valid() bool {
	return s == StatusPaid || s == StatusPending
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryIngredients, CategoryContainers, CategoryMiscellaneous, CategoryOthers:
		return true
	}
	return false
}

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPieces, UnitDozen:
		return true
	}
	return false
}

func (v View) Valid() bool {
	switch v {
	case ViewDashboard, ViewSales, ViewExpenses, ViewVendors, ViewProfitLoss:
		return true
	}
	return false
}

// Total returns the line total (quantity x per-unit price).
func (s Sale) Total() Money {
	return Money{Cents: int64(s.Quantity) * s.Price.Cents}
}

func (s Sale) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(s.Item)) == 0 {
		return ErrEmptyItem
	}
	if s.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if err := s.Price.Validate(); err != nil {
		return err
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	if s.Containers.Given < 0 || s.Containers.Returned < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if e.Unit != "" && !e.Unit.Valid() {
		return ErrInvalidUnit
	}
	return nil
}

func (v Vendor) Validate() error {
	if len(strings.TrimSpace(v.Name)) == 0 {
		return ErrEmptyName
	}
	if len(v.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}
