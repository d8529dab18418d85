package core

// MonthCurrencySum is one sparse aggregation row: the grouped sum for a
// single (calendar month, currency) pair.
type MonthCurrencySum struct {
	Month      string // "YYYY-MM"
	Currency   Currency
	TotalCents int64
}

// MonthBucket holds one calendar month's totals. Every supported currency is
// always present, zero-filled when no transactions existed.
type MonthBucket struct {
	Month  string // "YYYY-MM"
	Totals map[Currency]int64
}

// CurrencyTotal is the grouped sum/count/average for one currency inside a
// date window.
type CurrencyTotal struct {
	Currency   Currency
	TotalCents int64
	Count      int64
	AvgCents   float64
}

// CategoryTotal aggregates one category's spend inside a date window.
// TotalAllCents sums across currencies and exists only to rank rows; it is
// never shown as a single-currency amount.
type CategoryTotal struct {
	CategoryID    string // empty means uncategorized
	CategoryName  string
	Totals        map[Currency]int64
	TotalAllCents int64
}

// TrendReport is an ordered, gap-free series of consecutive months, oldest
// first, always exactly the requested length.
type TrendReport struct {
	Months []MonthBucket
}

// MonthlyReport summarizes one calendar month.
type MonthlyReport struct {
	Period        string // "YYYY-MM"
	Totals        []CurrencyTotal
	TopCategories []CategoryTotal
}

// CategoryReport breaks a date window down by category, ranked by combined
// total descending.
type CategoryReport struct {
	Range      PeriodRange
	ByCategory []CategoryTotal
}

// ZeroTotals returns a fresh per-currency map with every supported currency
// present at zero.
func ZeroTotals() map[Currency]int64 {
	totals := make(map[Currency]int64, len(SupportedCurrencies))
	for _, c := range SupportedCurrencies {
		totals[c] = 0
	}
	return totals
}
