package storage

import (
	"context"
	"strings"

	"kudi/internal/core"
)

// currencyIn builds a placeholder list restricting rows to supported
// currencies, so unknown codes never leak into report totals.
func currencyIn() (string, []any) {
	placeholders := make([]string, len(core.SupportedCurrencies))
	args := make([]any, len(core.SupportedCurrencies))
	for i, c := range core.SupportedCurrencies {
		placeholders[i] = "?"
		args[i] = string(c)
	}
	return "currency IN (" + strings.Join(placeholders, ", ") + ")", args
}

// SumByMonthCurrency returns per-month, per-currency totals inside the
// half-open window. Months without transactions produce no rows; the report
// layer fills the gaps.
func (r *SQLiteRepository) SumByMonthCurrency(ctx context.Context, ownerID string, pr core.PeriodRange) ([]core.MonthCurrencySum, error) {
	in, inArgs := currencyIn()
	args := append([]any{ownerID, fmtTime(pr.From), fmtTime(pr.To)}, inArgs...)

	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(occurred_at, 1, 7) AS month, currency, SUM(amount_cents)
		FROM transactions
		WHERE owner_id = ? AND deleted_at IS NULL
		  AND occurred_at >= ? AND occurred_at < ?
		  AND `+in+`
		GROUP BY month, currency
		ORDER BY month ASC`,
		args...,
	)
	if err != nil {
		return nil, storeErr("sum by month and currency", err)
	}
	defer rows.Close()

	var out []core.MonthCurrencySum
	for rows.Next() {
		var (
			sum      core.MonthCurrencySum
			currency string
		)
		if err := rows.Scan(&sum.Month, &currency, &sum.TotalCents); err != nil {
			return nil, storeErr("scan month sum", err)
		}
		sum.Currency = core.Currency(currency)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate month sums", err)
	}
	return out, nil
}

// CurrencyTotals returns sum, count and average per currency inside the
// half-open window. Currencies with no transactions produce no rows.
func (r *SQLiteRepository) CurrencyTotals(ctx context.Context, ownerID string, pr core.PeriodRange) ([]core.CurrencyTotal, error) {
	in, inArgs := currencyIn()
	args := append([]any{ownerID, fmtTime(pr.From), fmtTime(pr.To)}, inArgs...)

	rows, err := r.db.QueryContext(ctx, `
		SELECT currency, SUM(amount_cents), COUNT(*), AVG(amount_cents)
		FROM transactions
		WHERE owner_id = ? AND deleted_at IS NULL
		  AND occurred_at >= ? AND occurred_at < ?
		  AND `+in+`
		GROUP BY currency
		ORDER BY currency ASC`,
		args...,
	)
	if err != nil {
		return nil, storeErr("currency totals", err)
	}
	defer rows.Close()

	var out []core.CurrencyTotal
	for rows.Next() {
		var (
			total    core.CurrencyTotal
			currency string
		)
		if err := rows.Scan(&currency, &total.TotalCents, &total.Count, &total.AvgCents); err != nil {
			return nil, storeErr("scan currency total", err)
		}
		total.Currency = core.Currency(currency)
		out = append(out, total)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate currency totals", err)
	}
	return out, nil
}

// CategoryTotals returns per-category, per-currency sums inside the
// half-open window, ranked by the combined total across currencies.
// Uncategorized transactions group under the empty category id.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, ownerID string, pr core.PeriodRange) ([]core.CategoryTotal, error) {
	in, inArgs := currencyIn()

	var cases strings.Builder
	var caseArgs []any
	for _, c := range core.SupportedCurrencies {
		cases.WriteString("SUM(CASE WHEN currency = ? THEN amount_cents ELSE 0 END), ")
		caseArgs = append(caseArgs, string(c))
	}

	args := append(caseArgs, ownerID, fmtTime(pr.From), fmtTime(pr.To))
	args = append(args, inArgs...)

	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(category_id, ''), COALESCE(category_name, ''),
			`+cases.String()+`
			SUM(amount_cents) AS total_all
		FROM transactions
		WHERE owner_id = ? AND deleted_at IS NULL
		  AND occurred_at >= ? AND occurred_at < ?
		  AND `+in+`
		GROUP BY category_id, category_name
		ORDER BY total_all DESC, category_name ASC`,
		args...,
	)
	if err != nil {
		return nil, storeErr("category totals", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		total := core.CategoryTotal{Totals: make(map[core.Currency]int64, len(core.SupportedCurrencies))}
		dest := []any{&total.CategoryID, &total.CategoryName}
		sums := make([]int64, len(core.SupportedCurrencies))
		for i := range sums {
			dest = append(dest, &sums[i])
		}
		dest = append(dest, &total.TotalAllCents)

		if err := rows.Scan(dest...); err != nil {
			return nil, storeErr("scan category total", err)
		}
		for i, c := range core.SupportedCurrencies {
			total.Totals[c] = sums[i]
		}
		out = append(out, total)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate category totals", err)
	}
	return out, nil
}

// SpentInRange returns the per-currency spend inside the half-open window,
// optionally restricted to one category. Budget checks use this to compute
// spend to date without pulling individual rows.
func (r *SQLiteRepository) SpentInRange(ctx context.Context, ownerID, categoryID string, pr core.PeriodRange) (map[core.Currency]int64, error) {
	in, inArgs := currencyIn()

	query := `
		SELECT currency, SUM(amount_cents)
		FROM transactions
		WHERE owner_id = ? AND deleted_at IS NULL
		  AND occurred_at >= ? AND occurred_at < ?
		  AND ` + in
	args := append([]any{ownerID, fmtTime(pr.From), fmtTime(pr.To)}, inArgs...)

	if categoryID != "" {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}
	query += " GROUP BY currency"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("spent in range", err)
	}
	defer rows.Close()

	out := core.ZeroTotals()
	for rows.Next() {
		var (
			currency string
			cents    int64
		)
		if err := rows.Scan(&currency, &cents); err != nil {
			return nil, storeErr("scan spend", err)
		}
		out[core.Currency(currency)] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate spend", err)
	}
	return out, nil
}
