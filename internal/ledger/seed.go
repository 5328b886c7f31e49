package ledger

import "libretto/internal/core"

// Seed data shown on first run, before anything was ever persisted.

func vendorRef(id int64) *int64 { return &id }

func SeedVendors() []core.Vendor {
	return []core.Vendor{
		{ID: 1, Name: "Cake Supplies Co.", Contact: "555-1234", Active: true},
		{ID: 2, Name: "Farm Fresh Dairy", Contact: "555-5678", Active: true},
		{ID: 3, Name: "Packaging Pros", Contact: "555-8765", Active: true},
		{ID: 4, Name: "Old Supplier", Contact: "555-0000", Active: false},
	}
}

func SeedSales() []core.Sale {
	return []core.Sale{
		{
			ID: 1, Item: "Chocolate Cheesecake", Quantity: 2, Price: core.Money{Cents: 2500},
			Date: core.NewDate(2024, 7, 20), Status: core.StatusPaid, VendorID: vendorRef(1),
			Containers: core.Containers{Given: 2, Returned: 2},
		},
		{
			ID: 2, Item: "Strawberry Cheesecake", Quantity: 1, Price: core.Money{Cents: 3000},
			Date: core.NewDate(2024, 7, 21), Status: core.StatusPending, VendorID: vendorRef(2),
			Containers: core.Containers{Given: 1, Returned: 0},
		},
		{
			ID: 3, Item: "Blueberry Cheesecake", Quantity: 5, Price: core.Money{Cents: 2800},
			Date: core.NewDate(2024, 7, 22), Status: core.StatusPaid, VendorID: vendorRef(1),
			Containers: core.Containers{Given: 5, Returned: 3},
		},
	}
}

func SeedExpenses() []core.Expense {
	return []core.Expense{
		{
			ID: 1, Description: "Cream Cheese", Category: core.CategoryIngredients,
			Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 7, 19),
			Quantity: 5, Unit: core.UnitKilogram,
		},
		{
			ID: 2, Description: "8-inch containers", Category: core.CategoryContainers,
			Amount: core.Money{Cents: 3000}, Date: core.NewDate(2024, 7, 18),
		},
		{
			ID: 3, Description: "Electricity Bill", Category: core.CategoryMiscellaneous,
			Amount: core.Money{Cents: 10000}, Date: core.NewDate(2024, 7, 20),
		},
		{
			ID: 4, Description: "Sugar", Category: core.CategoryIngredients,
			Amount: core.Money{Cents: 2000}, Date: core.NewDate(2024, 7, 21),
			Quantity: 10, Unit: core.UnitKilogram,
		},
	}
}
