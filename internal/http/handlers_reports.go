package http

import (
	"net/http"

	"kudi/internal/core"
)

type trendMonthView struct {
	Month    string  `json:"month"`
	TotalUSD float64 `json:"totalUSD"`
	TotalNGN float64 `json:"totalNGN"`
}

type trendView struct {
	Months []trendMonthView `json:"months"`
}

type currencyTotalView struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
	Average  float64 `json:"avg"`
}

type categoryTotalView struct {
	CategoryID string  `json:"categoryId"`
	Category   string  `json:"category"`
	TotalUSD   float64 `json:"totalUSD"`
	TotalNGN   float64 `json:"totalNGN"`
	Total      float64 `json:"total"`
}

// categoryRowView is the categories-report row. The combined ranking total
// only orders rows; it is not a displayable amount, so it stays out of the
// payload here.
type categoryRowView struct {
	CategoryID string  `json:"categoryId"`
	Category   string  `json:"category"`
	TotalUSD   float64 `json:"totalUSD"`
	TotalNGN   float64 `json:"totalNGN"`
}

type monthlyView struct {
	Period        string              `json:"period"`
	Totals        []currencyTotalView `json:"totals"`
	TopCategories []categoryTotalView `json:"topCategories"`
}

type categoriesView struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	ByCategory []categoryRowView `json:"byCategory"`
}

type spendView struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	CategoryID string  `json:"categoryId,omitempty"`
	SpentUSD   float64 `json:"spentUSD"`
	SpentNGN   float64 `json:"spentNGN"`
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	months, err := parseMonths(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := s.reports.Trend(r.Context(), owner, months)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view := trendView{Months: make([]trendMonthView, 0, len(report.Months))}
	for _, b := range report.Months {
		view.Months = append(view.Months, trendMonthView{
			Month:    b.Month,
			TotalUSD: core.AmountOf(b.Totals[core.USD]),
			TotalNGN: core.AmountOf(b.Totals[core.NGN]),
		})
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := s.reports.MonthlyTotals(r.Context(), owner, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view := monthlyView{
		Period:        report.Period,
		Totals:        make([]currencyTotalView, 0, len(report.Totals)),
		TopCategories: categoryViews(report.TopCategories),
	}
	for _, t := range report.Totals {
		view.Totals = append(view.Totals, currencyTotalView{
			Currency: string(t.Currency),
			Total:    core.AmountOf(t.TotalCents),
			Count:    t.Count,
			Average:  t.AvgCents / 100.0,
		})
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	pr, err := parseDateRange(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := s.reports.ByCategory(r.Context(), owner, pr)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, categoriesView{
		From:       report.Range.From.Format("2006-01-02"),
		To:         report.Range.To.Format("2006-01-02"),
		ByCategory: categoryRowViews(report.ByCategory),
	})
}

func (s *Server) handleSpend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	pr, err := parseDateRange(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	categoryID := r.URL.Query().Get("categoryId")

	totals, err := s.reports.SpendToDate(r.Context(), owner, categoryID, pr)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, spendView{
		From:       pr.From.Format("2006-01-02"),
		To:         pr.To.Format("2006-01-02"),
		CategoryID: categoryID,
		SpentUSD:   core.AmountOf(totals[core.USD]),
		SpentNGN:   core.AmountOf(totals[core.NGN]),
	})
}

func categoryViews(categories []core.CategoryTotal) []categoryTotalView {
	out := make([]categoryTotalView, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryTotalView{
			CategoryID: c.CategoryID,
			Category:   categoryDisplayName(c),
			TotalUSD:   core.AmountOf(c.Totals[core.USD]),
			TotalNGN:   core.AmountOf(c.Totals[core.NGN]),
			Total:      core.AmountOf(c.TotalAllCents),
		})
	}
	return out
}

func categoryRowViews(categories []core.CategoryTotal) []categoryRowView {
	out := make([]categoryRowView, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryRowView{
			CategoryID: c.CategoryID,
			Category:   categoryDisplayName(c),
			TotalUSD:   core.AmountOf(c.Totals[core.USD]),
			TotalNGN:   core.AmountOf(c.Totals[core.NGN]),
		})
	}
	return out
}

func categoryDisplayName(c core.CategoryTotal) string {
	if c.CategoryName == "" && c.CategoryID == "" {
		return "Uncategorized"
	}
	return c.CategoryName
}
