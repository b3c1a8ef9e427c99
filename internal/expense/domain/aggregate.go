package domain

import "math"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Total sums amounts rounded to cents.
func Total(expenses []Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return round2(sum)
}

// ByCategory groups expense totals by category. Categories with no
// expenses are absent from the result.
func ByCategory(expenses []Expense) map[Category]float64 {
	out := make(map[Category]float64)
	for _, e := range expenses {
		out[e.Category] = round2(out[e.Category] + e.Amount)
	}
	return out
}

// FilterByCategory returns the expenses belonging to the given category.
func FilterByCategory(expenses []Expense, category Category) []Expense {
	filtered := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
