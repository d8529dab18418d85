// Package dashboard derives presentation metrics from finished reports:
// period-over-period percent changes, comparison windows and category
// shares. It never touches the store; everything here is pure computation
// over report values.
package dashboard

import (
	"math"
	"time"

	"kudi/internal/core"
)

// Metric pairs a value with its comparison baseline. PercentChange is nil
// when no baseline period exists.
type Metric struct {
	Value         float64
	Baseline      *float64
	PercentChange *float64
}

// PercentChange computes the relative change from baseline to value,
// rounded to two decimals. A nil baseline means no prior period existed and
// yields nil. A zero baseline with a zero value is no change; a zero
// baseline with spending reads as +100%.
func PercentChange(value float64, baseline *float64) *float64 {
	if baseline == nil {
		return nil
	}
	var pct float64
	switch {
	case *baseline == 0 && value == 0:
		pct = 0
	case *baseline == 0:
		pct = 100
	default:
		pct = math.Round(((value-*baseline)/(*baseline))*10000) / 100
	}
	return &pct
}

// CompareWindows splits a dense month series into two equal halves of n
// months and compares their per-currency sums. Returns false when the
// series is shorter than 2n; a partial baseline would distort the change.
func CompareWindows(buckets []core.MonthBucket, n int) (map[core.Currency]Metric, bool) {
	if n < 1 || len(buckets) < 2*n {
		return nil, false
	}

	recent := buckets[len(buckets)-n:]
	prior := buckets[len(buckets)-2*n : len(buckets)-n]

	out := make(map[core.Currency]Metric, len(core.SupportedCurrencies))
	for _, c := range core.SupportedCurrencies {
		value := sumCents(recent, c)
		baseline := sumCents(prior, c)
		out[c] = Metric{
			Value:         value,
			Baseline:      &baseline,
			PercentChange: PercentChange(value, &baseline),
		}
	}
	return out, true
}

// MonthOverMonth compares the last bucket against the one before it. With a
// single bucket there is no baseline and every change is nil.
func MonthOverMonth(buckets []core.MonthBucket) map[core.Currency]Metric {
	out := make(map[core.Currency]Metric, len(core.SupportedCurrencies))
	if len(buckets) == 0 {
		return out
	}

	last := buckets[len(buckets)-1]
	var prior *core.MonthBucket
	if len(buckets) > 1 {
		prior = &buckets[len(buckets)-2]
	}

	for _, c := range core.SupportedCurrencies {
		value := core.AmountOf(last.Totals[c])
		m := Metric{Value: value}
		if prior != nil {
			baseline := core.AmountOf(prior.Totals[c])
			m.Baseline = &baseline
			m.PercentChange = PercentChange(value, &baseline)
		}
		out[c] = m
	}
	return out
}

// MonthlyComparison holds per-currency changes between two monthly reports,
// for totals and transaction counts separately.
type MonthlyComparison struct {
	Totals map[core.Currency]Metric
	Counts map[core.Currency]Metric
}

// CompareMonthly compares a month's report against the previous month's.
// A nil previous report means the owner has no earlier data; changes stay
// nil rather than pretending the baseline was zero.
func CompareMonthly(current core.MonthlyReport, previous *core.MonthlyReport) MonthlyComparison {
	cmp := MonthlyComparison{
		Totals: make(map[core.Currency]Metric, len(core.SupportedCurrencies)),
		Counts: make(map[core.Currency]Metric, len(core.SupportedCurrencies)),
	}

	prior := make(map[core.Currency]core.CurrencyTotal)
	if previous != nil {
		for _, row := range previous.Totals {
			prior[row.Currency] = row
		}
	}

	for _, row := range current.Totals {
		total := Metric{Value: core.AmountOf(row.TotalCents)}
		count := Metric{Value: float64(row.Count)}
		if previous != nil {
			p := prior[row.Currency]
			baselineTotal := core.AmountOf(p.TotalCents)
			baselineCount := float64(p.Count)
			total.Baseline = &baselineTotal
			total.PercentChange = PercentChange(total.Value, &baselineTotal)
			count.Baseline = &baselineCount
			count.PercentChange = PercentChange(count.Value, &baselineCount)
		}
		cmp.Totals[row.Currency] = total
		cmp.Counts[row.Currency] = count
	}
	return cmp
}

// CategoryShare is one slice of the category breakdown, with its share of
// the combined total and a stable display color.
type CategoryShare struct {
	CategoryID   string
	CategoryName string
	TotalCents   int64
	Share        float64 // fraction of combined total, rounded to 4 decimals
	Color        string
}

// chartPalette cycles deterministically: the same rank always gets the same
// color, so charts stay stable across refreshes.
var chartPalette = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F",
	"#EDC948", "#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC",
}

// CategoryShares converts ranked category totals into chart slices. Shares
// are computed over the combined total across currencies.
func CategoryShares(categories []core.CategoryTotal) []CategoryShare {
	var grand int64
	for _, c := range categories {
		grand += c.TotalAllCents
	}

	out := make([]CategoryShare, 0, len(categories))
	for i, c := range categories {
		share := 0.0
		if grand > 0 {
			share = math.Round(float64(c.TotalAllCents)/float64(grand)*10000) / 10000
		}
		name := c.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		out = append(out, CategoryShare{
			CategoryID:   c.CategoryID,
			CategoryName: name,
			TotalCents:   c.TotalAllCents,
			Share:        share,
			Color:        chartPalette[i%len(chartPalette)],
		})
	}
	return out
}

// DefaultMonth picks the month a dashboard should open on: the latest
// bucket with any spend, falling back to the current month.
func DefaultMonth(buckets []core.MonthBucket, now time.Time) string {
	for i := len(buckets) - 1; i >= 0; i-- {
		for _, cents := range buckets[i].Totals {
			if cents > 0 {
				return buckets[i].Month
			}
		}
	}
	return now.UTC().Format("2006-01")
}

func sumCents(buckets []core.MonthBucket, c core.Currency) float64 {
	var total int64
	for _, b := range buckets {
		total += b.Totals[c]
	}
	return core.AmountOf(total)
}
