// Package reports builds the aggregated expense reports: the monthly trend
// series, per-month totals with top categories, the category breakdown and
// spend-to-date lookups. Each report is computed fresh from the store; no
// report state is shared across requests.
package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"kudi/internal/core"
	"kudi/internal/log"
)

const (
	// MaxTrendMonths bounds the trend window; out-of-range requests are
	// clamped, never rejected.
	MaxTrendMonths = 24

	// TopCategoriesLimit caps the category list inside a monthly report.
	TopCategoriesLimit = 5
)

// Store is the aggregation surface the report service needs.
type Store interface {
	SumByMonthCurrency(ctx context.Context, ownerID string, pr core.PeriodRange) ([]core.MonthCurrencySum, error)
	CurrencyTotals(ctx context.Context, ownerID string, pr core.PeriodRange) ([]core.CurrencyTotal, error)
	CategoryTotals(ctx context.Context, ownerID string, pr core.PeriodRange) ([]core.CategoryTotal, error)
	SpentInRange(ctx context.Context, ownerID, categoryID string, pr core.PeriodRange) (map[core.Currency]int64, error)
}

type Service struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

func NewService(store Store, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithComponent(log.ComponentReports),
		now:    time.Now,
	}
}

// Trend returns the per-month spend series for the last months calendar
// months, the current month included. The window is clamped to [1, 24] and
// the series is dense: every month appears, zero-filled when empty.
func (s *Service) Trend(ctx context.Context, ownerID string, months int) (core.TrendReport, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.TrendReport{}, core.ErrMissingOwner
	}
	if months < 1 {
		months = 1
	}
	if months > MaxTrendMonths {
		months = MaxTrendMonths
	}

	now := s.now().UTC()
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	window := core.PeriodRange{
		From: anchor.AddDate(0, -(months - 1), 0),
		To:   anchor.AddDate(0, 1, 0),
	}

	rows, err := s.store.SumByMonthCurrency(ctx, ownerID, window)
	if err != nil {
		return core.TrendReport{}, fmt.Errorf("trend query: %w", err)
	}

	s.logger.DebugContext(ctx, "Trend computed",
		log.FieldOwnerID, ownerID, log.FieldMonths, months, "sparse_rows", len(rows))

	return core.TrendReport{Months: FillMonthBuckets(rows, anchor, months)}, nil
}

// MonthlyTotals summarizes one calendar month: per-currency sum, count and
// average plus the top categories ranked by combined total.
func (s *Service) MonthlyTotals(ctx context.Context, ownerID string, year, month int) (core.MonthlyReport, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.MonthlyReport{}, core.ErrMissingOwner
	}
	pr, err := core.MonthRange(year, month)
	if err != nil {
		return core.MonthlyReport{}, err
	}

	var (
		totals     []core.CurrencyTotal
		categories []core.CategoryTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.store.CurrencyTotals(gctx, ownerID, pr)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.CategoryTotals(gctx, ownerID, pr)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MonthlyReport{}, fmt.Errorf("monthly totals query: %w", err)
	}

	if len(categories) > TopCategoriesLimit {
		categories = categories[:TopCategoriesLimit]
	}

	return core.MonthlyReport{
		Period:        pr.From.Format(monthKeyLayout),
		Totals:        fillCurrencyTotals(totals),
		TopCategories: categories,
	}, nil
}

// ByCategory breaks the given window down by category, ranked by combined
// total descending. Uncategorized spend appears as its own row.
func (s *Service) ByCategory(ctx context.Context, ownerID string, pr core.PeriodRange) (core.CategoryReport, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.CategoryReport{}, core.ErrMissingOwner
	}

	categories, err := s.store.CategoryTotals(ctx, ownerID, pr)
	if err != nil {
		return core.CategoryReport{}, fmt.Errorf("category query: %w", err)
	}

	return core.CategoryReport{Range: pr, ByCategory: categories}, nil
}

// SpendToDate returns the per-currency spend inside the window, optionally
// restricted to one category. Budget checks are its main caller.
func (s *Service) SpendToDate(ctx context.Context, ownerID, categoryID string, pr core.PeriodRange) (map[core.Currency]int64, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, core.ErrMissingOwner
	}
	if err := core.ValidateCategoryID(categoryID); err != nil {
		return nil, err
	}

	totals, err := s.store.SpentInRange(ctx, ownerID, categoryID, pr)
	if err != nil {
		return nil, fmt.Errorf("spend query: %w", err)
	}
	return totals, nil
}

// fillCurrencyTotals guarantees a row per supported currency, zero-filled
// when the store returned nothing, ordered by currency code.
func fillCurrencyTotals(rows []core.CurrencyTotal) []core.CurrencyTotal {
	byCurrency := make(map[core.Currency]core.CurrencyTotal, len(rows))
	for _, row := range rows {
		byCurrency[row.Currency] = row
	}

	out := make([]core.CurrencyTotal, 0, len(core.SupportedCurrencies))
	for _, c := range core.SupportedCurrencies {
		row, ok := byCurrency[c]
		if !ok {
			row = core.CurrencyTotal{Currency: c}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}
