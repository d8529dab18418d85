package reports

import (
	"testing"
	"time"

	"kudi/internal/core"
)

func TestFillMonthBuckets(t *testing.T) {
	anchor := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []core.MonthCurrencySum{
		{Month: "2025-01", Currency: core.USD, TotalCents: 10000},
		{Month: "2025-02", Currency: core.NGN, TotalCents: 5000},
	}

	got := FillMonthBuckets(rows, anchor, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	want := []struct {
		month string
		usd   int64
		ngn   int64
	}{
		{"2024-12", 0, 0},
		{"2025-01", 10000, 0},
		{"2025-02", 0, 5000},
	}
	for i, w := range want {
		b := got[i]
		if b.Month != w.month {
			t.Errorf("bucket %d month = %s, want %s", i, b.Month, w.month)
		}
		if b.Totals[core.USD] != w.usd || b.Totals[core.NGN] != w.ngn {
			t.Errorf("bucket %d totals = %v, want USD %d NGN %d", i, b.Totals, w.usd, w.ngn)
		}
	}
}

func TestFillMonthBucketsYearWrap(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	got := FillMonthBuckets(nil, anchor, 4)

	want := []string{"2024-10", "2024-11", "2024-12", "2025-01"}
	for i, m := range want {
		if got[i].Month != m {
			t.Errorf("bucket %d = %s, want %s", i, got[i].Month, m)
		}
	}
}

func TestFillMonthBucketsAlwaysZeroFilled(t *testing.T) {
	anchor := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, b := range FillMonthBuckets(nil, anchor, 6) {
		for _, c := range core.SupportedCurrencies {
			if _, ok := b.Totals[c]; !ok {
				t.Errorf("bucket %s missing currency %s", b.Month, c)
			}
		}
	}
}

func TestFillMonthBucketsDropsUnsupportedCurrency(t *testing.T) {
	anchor := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []core.MonthCurrencySum{
		{Month: "2025-03", Currency: core.Currency("EUR"), TotalCents: 999},
		{Month: "2025-03", Currency: core.USD, TotalCents: 100},
	}

	got := FillMonthBuckets(rows, anchor, 1)
	if got[0].Totals[core.USD] != 100 {
		t.Errorf("usd = %d, want 100", got[0].Totals[core.USD])
	}
	if _, ok := got[0].Totals[core.Currency("EUR")]; ok {
		t.Error("unsupported currency leaked into bucket")
	}
}

func TestFillMonthBucketsIgnoresRowsOutsideWindow(t *testing.T) {
	anchor := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []core.MonthCurrencySum{
		{Month: "2020-01", Currency: core.USD, TotalCents: 777},
	}

	got := FillMonthBuckets(rows, anchor, 2)
	for _, b := range got {
		if b.Totals[core.USD] != 0 {
			t.Errorf("bucket %s picked up out-of-window row: %v", b.Month, b.Totals)
		}
	}
}
