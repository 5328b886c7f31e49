package core

const (
	ActivitySale    ActivityKind = "sale"
	ActivityExpense ActivityKind = "expense"
)

type ActivityKind string

// Activity is a tagged view over a sale or an expense, used where the two
// record streams are merged (recent activity, chart bucketing). Exactly one
// of Sale/Expense is set, matching Kind.
type Activity struct {
	Kind    ActivityKind `json:"kind"`
	Sale    *Sale        `json:"sale,omitempty"`
	Expense *Expense     `json:"expense,omitempty"`
}

func SaleActivity(s Sale) Activity {
	return Activity{Kind: ActivitySale, Sale: &s}
}

func ExpenseActivity(e Expense) Activity {
	return Activity{Kind: ActivityExpense, Expense: &e}
}

func (a Activity) Date() Date {
	if a.Kind == ActivitySale {
		return a.Sale.Date
	}
	return a.Expense.Date
}

func (a Activity) ID() int64 {
	if a.Kind == ActivitySale {
		return a.Sale.ID
	}
	return a.Expense.ID
}

// Amount is the money moved: line total for sales, total amount for expenses.
func (a Activity) Amount() Money {
	if a.Kind == ActivitySale {
		return a.Sale.Total()
	}
	return a.Expense.Amount
}
