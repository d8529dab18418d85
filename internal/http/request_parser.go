// Request parameter extraction and validation shared by the handlers.

package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"kudi/internal/core"
)

const ownerHeader = "X-Owner-ID"

// ownerID extracts the owner scope from the X-Owner-ID header, falling back
// to the ownerId query parameter. Every data route requires one.
func ownerID(r *http.Request) (string, error) {
	owner := strings.TrimSpace(r.Header.Get(ownerHeader))
	if owner == "" {
		owner = strings.TrimSpace(r.URL.Query().Get("ownerId"))
	}
	if owner == "" {
		return "", core.ErrMissingOwner
	}
	return owner, nil
}

// parseMonths reads the months query parameter. Missing defaults to 1; a
// non-numeric value is a client error. Numeric out-of-range values pass
// through, the report service clamps them.
func parseMonths(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("months"))
	if v == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.NewValidationError("months must be a number")
	}
	return n, nil
}

// parseYearMonth reads year and month query parameters, defaulting to the
// current UTC month.
func parseYearMonth(r *http.Request) (int, int, error) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, core.NewValidationError("year must be a number")
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, core.ErrInvalidMonth
		}
		month = m
	}
	return year, month, nil
}

// parseDate accepts RFC3339 timestamps and plain dates.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, core.ErrInvalidDate
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, core.ErrInvalidDate
}

// parseDateRange builds the half-open window from from/to query parameters.
// Both are required; a date-only upper bound covers its whole day.
func parseDateRange(r *http.Request) (core.PeriodRange, error) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		return core.PeriodRange{}, core.NewValidationError("from date is missing or malformed")
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		return core.PeriodRange{}, core.NewValidationError("to date is missing or malformed")
	}
	return core.NewPeriodRange(from, to)
}

// parseOptionalDate returns nil when the parameter is absent.
func parseOptionalDate(r *http.Request, key string) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return nil, core.NewValidationError(key + " date is malformed")
	}
	return &t, nil
}

func parseIntParam(r *http.Request, key string) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
