// Package storage implements the SQLite transaction store.
//
// This file translates caller-supplied query parameters into a store filter:
// a WHERE clause with bound arguments plus normalized pagination. Both the
// transaction listing endpoint and the spend-to-date lookup build on it.
package storage

import (
	"strings"
	"time"

	"kudi/internal/core"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TransactionFilter describes an owner-scoped transaction query. Zero-value
// optional fields mean "no constraint".
type TransactionFilter struct {
	OwnerID      string
	From         *time.Time // inclusive
	To           *time.Time // inclusive (listings; aggregates use PeriodRange)
	CategoryID   string
	CategoryName string
	Term         string // free text, matched literally
	Limit        int
	Page         int
}

// Normalize validates identifiers and clamps pagination. Must be called
// before the filter reaches SQL.
func (f *TransactionFilter) Normalize() error {
	if strings.TrimSpace(f.OwnerID) == "" {
		return core.ErrMissingOwner
	}
	if f.CategoryID != "" && f.CategoryName != "" {
		return core.NewValidationError("category id and category name are mutually exclusive")
	}
	if err := core.ValidateCategoryID(f.CategoryID); err != nil {
		return err
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return nil
}

func (f *TransactionFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

// whereClause assembles the SQL conditions. List filters are inclusive on
// both date bounds; when a category is pinned the free-text term narrows
// descriptions only, otherwise it matches description OR category name.
func (f *TransactionFilter) whereClause() (string, []any) {
	conds := []string{"owner_id = ?", "deleted_at IS NULL"}
	args := []any{f.OwnerID}

	if f.From != nil {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, fmtTime(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, fmtTime(*f.To))
	}
	if f.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.CategoryName != "" {
		conds = append(conds, "LOWER(category_name) = LOWER(?)")
		args = append(args, f.CategoryName)
	}
	if term := strings.TrimSpace(f.Term); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		if f.CategoryID != "" || f.CategoryName != "" {
			conds = append(conds, `LOWER(description) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		} else {
			conds = append(conds, `(LOWER(description) LIKE ? ESCAPE '\' OR LOWER(COALESCE(category_name, '')) LIKE ? ESCAPE '\')`)
			args = append(args, pattern, pattern)
		}
	}

	return strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE wildcards so user input is matched literally,
// never interpreted as a pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
