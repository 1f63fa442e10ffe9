package core

import "sort"

// Ledger is the ordered set of expense records for one trip.
type Ledger []ExpenseRecord

// TotalSpent returns the sum of all expense amounts. An empty ledger
// yields zero, not an error.
func (l Ledger) TotalSpent() Money {
	var total Money
	for _, rec := range l {
		total = total.Add(rec.Amount)
	}
	return total
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// ByCategory groups expense totals by category, sorted by category name.
// Records without a category are bucketed under CategoryOther.
func (l Ledger) ByCategory() []CategoryAmount {
	totals := make(map[string]Money)
	for _, rec := range l {
		cat := rec.Category
		if cat == "" {
			cat = CategoryOther
		}
		totals[cat] = totals[cat].Add(rec.Amount)
	}

	out := make([]CategoryAmount, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategoryAmount{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
