package dashboard

import (
	"testing"
	"time"

	"kudi/internal/core"
)

func f(v float64) *float64 { return &v }

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		baseline *float64
		want     *float64
	}{
		{"no baseline", 150, nil, nil},
		{"growth", 150, f(100), f(50)},
		{"decline", 50, f(100), f(-50)},
		{"flat", 100, f(100), f(0)},
		{"zero over zero", 0, f(0), f(0)},
		{"spend from nothing", 42, f(0), f(100)},
		{"rounds to two decimals", 1, f(3), f(-66.67)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.value, tt.baseline)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("got %v, want %v", *got, *tt.want)
			}
		})
	}
}

func bucket(month string, usd, ngn int64) core.MonthBucket {
	return core.MonthBucket{Month: month, Totals: map[core.Currency]int64{core.USD: usd, core.NGN: ngn}}
}

func TestCompareWindows(t *testing.T) {
	buckets := []core.MonthBucket{
		bucket("2025-01", 10000, 0),
		bucket("2025-02", 10000, 0),
		bucket("2025-03", 15000, 0),
		bucket("2025-04", 15000, 0),
	}

	got, ok := CompareWindows(buckets, 2)
	if !ok {
		t.Fatal("expected comparison to be available")
	}

	usd := got[core.USD]
	if usd.Value != 300 || *usd.Baseline != 200 {
		t.Errorf("usd = %+v, want value 300 baseline 200", usd)
	}
	if *usd.PercentChange != 50 {
		t.Errorf("usd change = %v, want 50", *usd.PercentChange)
	}

	ngn := got[core.NGN]
	if *ngn.PercentChange != 0 {
		t.Errorf("ngn change = %v, want 0", *ngn.PercentChange)
	}
}

func TestCompareWindowsNeedsFullBaseline(t *testing.T) {
	buckets := []core.MonthBucket{
		bucket("2025-01", 100, 0),
		bucket("2025-02", 100, 0),
		bucket("2025-03", 100, 0),
	}

	if _, ok := CompareWindows(buckets, 2); ok {
		t.Error("2n-1 buckets should not produce a comparison")
	}
	if _, ok := CompareWindows(buckets[:2], 1); !ok {
		t.Error("exactly 2n buckets should produce a comparison")
	}
	if _, ok := CompareWindows(buckets, 0); ok {
		t.Error("n < 1 should not produce a comparison")
	}
}

func TestMonthOverMonth(t *testing.T) {
	t.Run("with prior month", func(t *testing.T) {
		got := MonthOverMonth([]core.MonthBucket{
			bucket("2025-01", 10000, 5000),
			bucket("2025-02", 5000, 5000),
		})
		if *got[core.USD].PercentChange != -50 {
			t.Errorf("usd change = %v, want -50", *got[core.USD].PercentChange)
		}
		if *got[core.NGN].PercentChange != 0 {
			t.Errorf("ngn change = %v, want 0", *got[core.NGN].PercentChange)
		}
	})

	t.Run("single month has no baseline", func(t *testing.T) {
		got := MonthOverMonth([]core.MonthBucket{bucket("2025-02", 10000, 0)})
		if got[core.USD].PercentChange != nil {
			t.Errorf("change = %v, want nil", *got[core.USD].PercentChange)
		}
		if got[core.USD].Value != 100 {
			t.Errorf("value = %v, want 100", got[core.USD].Value)
		}
	})
}

func TestCompareMonthly(t *testing.T) {
	current := core.MonthlyReport{
		Period: "2025-02",
		Totals: []core.CurrencyTotal{
			{Currency: core.USD, TotalCents: 30000, Count: 3},
			{Currency: core.NGN, TotalCents: 0, Count: 0},
		},
	}
	previous := &core.MonthlyReport{
		Period: "2025-01",
		Totals: []core.CurrencyTotal{
			{Currency: core.USD, TotalCents: 20000, Count: 4},
			{Currency: core.NGN, TotalCents: 0, Count: 0},
		},
	}

	cmp := CompareMonthly(current, previous)

	if *cmp.Totals[core.USD].PercentChange != 50 {
		t.Errorf("usd total change = %v, want 50", *cmp.Totals[core.USD].PercentChange)
	}
	if *cmp.Counts[core.USD].PercentChange != -25 {
		t.Errorf("usd count change = %v, want -25", *cmp.Counts[core.USD].PercentChange)
	}
	if *cmp.Totals[core.NGN].PercentChange != 0 {
		t.Errorf("ngn total change = %v, want 0", *cmp.Totals[core.NGN].PercentChange)
	}

	noPrior := CompareMonthly(current, nil)
	if noPrior.Totals[core.USD].PercentChange != nil {
		t.Error("missing previous month should leave changes nil")
	}
}

func TestCategoryShares(t *testing.T) {
	categories := []core.CategoryTotal{
		{CategoryID: "c1", CategoryName: "Food", TotalAllCents: 7500},
		{CategoryID: "", CategoryName: "", TotalAllCents: 2500},
	}

	got := CategoryShares(categories)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Share != 0.75 || got[1].Share != 0.25 {
		t.Errorf("shares = %v, %v; want 0.75, 0.25", got[0].Share, got[1].Share)
	}
	if got[1].CategoryName != "Uncategorized" {
		t.Errorf("name = %s, want Uncategorized", got[1].CategoryName)
	}
	if got[0].Color == "" || got[0].Color == got[1].Color {
		t.Errorf("colors = %s, %s; want distinct stable colors", got[0].Color, got[1].Color)
	}

	// same input, same colors
	again := CategoryShares(categories)
	if again[0].Color != got[0].Color {
		t.Error("palette assignment must be deterministic")
	}
}

func TestCategorySharesEmptyTotal(t *testing.T) {
	got := CategoryShares([]core.CategoryTotal{{CategoryName: "Food", TotalAllCents: 0}})
	if got[0].Share != 0 {
		t.Errorf("share = %v, want 0", got[0].Share)
	}
}

func TestDefaultMonth(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	buckets := []core.MonthBucket{
		bucket("2025-03", 100, 0),
		bucket("2025-04", 0, 0),
		bucket("2025-05", 0, 0),
	}
	if got := DefaultMonth(buckets, now); got != "2025-03" {
		t.Errorf("got %s, want 2025-03", got)
	}

	if got := DefaultMonth(nil, now); got != "2025-06" {
		t.Errorf("got %s, want current month 2025-06", got)
	}
}
