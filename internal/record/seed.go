package record

import "time"

// Seed fixtures used when a JSON file does not exist yet and by cmd/seed.
// These mirror the sample data the app has shipped with since the first
// prototype.

func SeedExpenses() []*Expense {
	return []*Expense{
		{
			ID:       1,
			Date:     NewDate(2025, time.November, 1),
			Business: strPtr("SuperSal"),
			Category: "Groceries",
			Amount:   MustAmount("142.50"),
			Account:  "Visa 1234",
			Currency: "₪",
			Notes:    strPtr("Weekly shopping"),
		},
		{
			ID:       2,
			Date:     NewDate(2025, time.November, 5),
			Business: strPtr("Rav-Kav"),
			Category: "Transport",
			Amount:   MustAmount("15.00"),
			Account:  "Cash",
			Currency: "₪",
			Notes:    strPtr("Bus to work"),
		},
	}
}

func SeedIncomes() []*Income {
	return []*Income{
		{
			ID:       1,
			Date:     NewDate(2025, time.November, 1),
			Category: "Salary",
			Amount:   MustAmount("8200.00"),
			Account:  "Bank Leumi",
			Currency: "₪",
			Notes:    strPtr("November salary"),
		},
		{
			ID:       2,
			Date:     NewDate(2025, time.November, 10),
			Category: "Freelance",
			Amount:   MustAmount("1250.00"),
			Account:  "PayPal",
			Currency: "₪",
			Notes:    strPtr("Client project"),
		},
	}
}

func strPtr(s string) *string { return &s }
