package reports

import (
	"time"

	"kudi/internal/core"
)

const monthKeyLayout = "2006-01"

// FillMonthBuckets turns sparse per-month sums into a dense, ordered series
// of exactly n consecutive months ending at the anchor month. Months with no
// rows get zero totals for every supported currency. Rows whose month falls
// outside the window, or whose currency is not supported, are dropped.
func FillMonthBuckets(rows []core.MonthCurrencySum, anchor time.Time, n int) []core.MonthBucket {
	sums := make(map[string]map[core.Currency]int64, len(rows))
	for _, row := range rows {
		if !row.Currency.Supported() {
			continue
		}
		if _, ok := sums[row.Month]; !ok {
			sums[row.Month] = make(map[core.Currency]int64, len(core.SupportedCurrencies))
		}
		sums[row.Month][row.Currency] += row.TotalCents
	}

	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)

	buckets := make([]core.MonthBucket, 0, n)
	cursor := first
	for i := 0; i < n; i++ {
		key := cursor.Format(monthKeyLayout)
		totals := core.ZeroTotals()
		for c, cents := range sums[key] {
			totals[c] = cents
		}
		buckets = append(buckets, core.MonthBucket{Month: key, Totals: totals})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return buckets
}
