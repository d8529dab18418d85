package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	// Currency identifies one of the independently tracked currencies.
	// Amounts are never converted between currencies.
	Currency string

	Money struct {
		Cents int64
	}

	// Transaction is one reported expense. Immutable once it has been
	// aggregated into a report; owned by exactly one owner.
	Transaction struct {
		ID           string
		OwnerID      string
		Amount       Money
		Currency     Currency
		Description  string
		CategoryID   string // empty means uncategorized
		CategoryName string // denormalized, may be empty
		OccurredAt   time.Time
		CreatedAt    time.Time
	}
)

const (
	USD Currency = "USD"
	NGN Currency = "NGN"
)

// SupportedCurrencies is the closed set of currencies that participate in
// currency-keyed totals. Rows carrying any other currency are ignored by
// aggregations. Adding a currency here is a data change, not a code change.
var SupportedCurrencies = []Currency{USD, NGN}

func (c Currency) Supported() bool {
	for _, sc := range SupportedCurrencies {
		if c == sc {
			return true
		}
	}
	return false
}

var (
	ErrMissingOwner      = NewValidationError("missing owner id")
	ErrInvalidAmount     = NewValidationError("invalid amount")
	ErrInvalidCurrency   = NewValidationError("unsupported currency")
	ErrEmptyDescription  = NewValidationError("empty description")
	ErrInvalidDate       = NewValidationError("invalid date")
	ErrInvalidMonth      = NewValidationError("invalid month")
	ErrInvalidCategoryID = NewValidationError("invalid category id")
)

// ValidateCategoryID checks the fixed identifier format for category ids.
// An empty id is fine (uncategorized); a malformed one is a client error.
func ValidateCategoryID(id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidCategoryID
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrMissingOwner
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Currency.Supported() {
		return ErrInvalidCurrency
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return NewValidationError("description too long (max 200 characters)")
	}
	if t.OccurredAt.IsZero() {
		return ErrInvalidDate
	}
	return ValidateCategoryID(t.CategoryID)
}

// PeriodRange is a half-open date interval [From, To). The half-open
// convention avoids double-counting a boundary instant between windows.
type PeriodRange struct {
	From time.Time
	To   time.Time
}

// NewPeriodRange builds a half-open range from caller-supplied bounds.
// A calendar-day upper bound (zero time component) is advanced by one day so
// the whole day stays inclusive.
func NewPeriodRange(from, to time.Time) (PeriodRange, error) {
	if from.IsZero() || to.IsZero() {
		return PeriodRange{}, ErrInvalidDate
	}
	if isMidnight(to) {
		to = to.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return PeriodRange{}, NewValidationError("from date must be before to date")
	}
	return PeriodRange{From: from.UTC(), To: to.UTC()}, nil
}

// MonthRange returns the UTC month boundary [firstOfMonth, firstOfNextMonth).
func MonthRange(year, month int) (PeriodRange, error) {
	if month < 1 || month > 12 {
		return PeriodRange{}, ErrInvalidMonth
	}
	if year < 1970 || year > 9999 {
		return PeriodRange{}, NewValidationError("year out of range")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return PeriodRange{From: first, To: first.AddDate(0, 1, 0)}, nil
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
