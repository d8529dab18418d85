package core

import (
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		ID:          "2f0b54a4-9be5-4a6d-9b9a-07a71f7a2a10",
		OwnerID:     "owner-1",
		Amount:      Money{Cents: 1500},
		Currency:    USD,
		Description: "groceries",
		OccurredAt:  time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"missing owner", func(tx *Transaction) { tx.OwnerID = "  " }, ErrMissingOwner},
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -5 }, ErrInvalidAmount},
		{"unsupported currency", func(tx *Transaction) { tx.Currency = "EUR" }, ErrInvalidCurrency},
		{"empty description", func(tx *Transaction) { tx.Description = "" }, ErrEmptyDescription},
		{"zero date", func(tx *Transaction) { tx.OccurredAt = time.Time{} }, ErrInvalidDate},
		{"bad category id", func(tx *Transaction) { tx.CategoryID = "not-a-uuid" }, ErrInvalidCategoryID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); err != tc.want {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateCategoryID(t *testing.T) {
	if err := ValidateCategoryID(""); err != nil {
		t.Fatalf("empty category id should be valid: %v", err)
	}
	if err := ValidateCategoryID("2f0b54a4-9be5-4a6d-9b9a-07a71f7a2a10"); err != nil {
		t.Fatalf("uuid category id should be valid: %v", err)
	}
	if err := ValidateCategoryID("123"); err != ErrInvalidCategoryID {
		t.Fatalf("malformed id should fail with ErrInvalidCategoryID, got %v", err)
	}
}

func TestNewPeriodRange(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("day-granular upper bound becomes inclusive", func(t *testing.T) {
		to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		pr, err := NewPeriodRange(from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		if !pr.To.Equal(want) {
			t.Fatalf("To = %v, want %v", pr.To, want)
		}
	})

	t.Run("timestamped upper bound kept as-is", func(t *testing.T) {
		to := time.Date(2025, 1, 31, 15, 30, 0, 0, time.UTC)
		pr, err := NewPeriodRange(from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !pr.To.Equal(to) {
			t.Fatalf("To = %v, want %v", pr.To, to)
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		if _, err := NewPeriodRange(from, from.AddDate(0, 0, -5)); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("zero bound rejected", func(t *testing.T) {
		if _, err := NewPeriodRange(time.Time{}, from); err != ErrInvalidDate {
			t.Fatalf("expected ErrInvalidDate, got %v", err)
		}
	})
}

func TestMonthRange(t *testing.T) {
	pr, err := MonthRange(2025, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pr.From; !got.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("From = %v", got)
	}
	// December rolls into January of the next year.
	if got := pr.To; !got.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("To = %v", got)
	}

	if _, err := MonthRange(2025, 13); err != ErrInvalidMonth {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
