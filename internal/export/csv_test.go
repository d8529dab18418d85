package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"testing"
	"time"

	"kudi/internal/core"
	"kudi/internal/log"
)

type fakeLister struct {
	rows      []core.Transaction
	err       error
	lastLimit int
}

func (f *fakeLister) ListForExport(_ context.Context, _ string, _ core.PeriodRange, limit int) ([]core.Transaction, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError})
}

func testRange(t *testing.T) core.PeriodRange {
	t.Helper()
	pr, err := core.NewPeriodRange(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatal(err)
	}
	return pr
}

func sampleTx(id string) core.Transaction {
	return core.Transaction{
		ID:           id,
		OwnerID:      "owner-1",
		Amount:       core.Money{Cents: 1250},
		Currency:     core.USD,
		Description:  "lunch, with \"quotes\"\nand a newline",
		CategoryID:   "4b2f96df-12aa-4d9e-9f6e-0c7a0a3f9a11",
		CategoryName: "Food",
		OccurredAt:   time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2025, 1, 10, 12, 5, 0, 0, time.UTC),
	}
}

func TestExportRoundTrip(t *testing.T) {
	lister := &fakeLister{rows: []core.Transaction{sampleTx("tx-1")}}
	exporter := NewCSVExporter(lister, testLogger(), 100)

	doc, err := exporter.Export(context.Background(), "owner-1", testRange(t))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.Filename != "transactions_2025-01-01_2025-01-31.csv" {
		t.Errorf("filename = %s", doc.Filename)
	}

	records, err := csv.NewReader(bytes.NewReader(doc.Content)).ReadAll()
	if err != nil {
		t.Fatalf("generated csv does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}

	row := records[1]
	if row[0] != "tx-1" || row[1] != "12.50" || row[2] != "USD" {
		t.Errorf("row = %v", row)
	}
	// quoting survives commas, quotes and newlines inside the field
	if row[3] != "lunch, with \"quotes\"\nand a newline" {
		t.Errorf("description = %q", row[3])
	}
	if row[6] != "2025-01-10T12:00:00Z" {
		t.Errorf("date = %s", row[6])
	}
}

func TestExportEmptyWindow(t *testing.T) {
	exporter := NewCSVExporter(&fakeLister{}, testLogger(), 100)

	doc, err := exporter.Export(context.Background(), "owner-1", testRange(t))
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(doc.Content)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want header only", len(records))
	}
}

func TestExportRowCap(t *testing.T) {
	var rows []core.Transaction
	for i := 0; i < 4; i++ {
		rows = append(rows, sampleTx(string(rune('a'+i))))
	}

	t.Run("over cap fails without output", func(t *testing.T) {
		lister := &fakeLister{rows: rows}
		exporter := NewCSVExporter(lister, testLogger(), 3)

		doc, err := exporter.Export(context.Background(), "owner-1", testRange(t))
		if !errors.Is(err, core.ErrExportTooLarge) {
			t.Fatalf("err = %v, want ErrExportTooLarge", err)
		}
		if doc != nil {
			t.Error("oversized export must produce no document")
		}
		if lister.lastLimit != 4 {
			t.Errorf("fetch limit = %d, want cap+1", lister.lastLimit)
		}
	})

	t.Run("exactly at cap succeeds", func(t *testing.T) {
		lister := &fakeLister{rows: rows[:3]}
		exporter := NewCSVExporter(lister, testLogger(), 3)

		doc, err := exporter.Export(context.Background(), "owner-1", testRange(t))
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		records, err := csv.NewReader(bytes.NewReader(doc.Content)).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 4 {
			t.Errorf("records = %d, want header + 3 rows", len(records))
		}
	})
}

func TestExportOptionalFieldsEmpty(t *testing.T) {
	tx := sampleTx("tx-1")
	tx.CategoryID = ""
	tx.CategoryName = ""
	lister := &fakeLister{rows: []core.Transaction{tx}}
	exporter := NewCSVExporter(lister, testLogger(), 100)

	doc, err := exporter.Export(context.Background(), "owner-1", testRange(t))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	records, _ := csv.NewReader(bytes.NewReader(doc.Content)).ReadAll()
	if records[1][4] != "" || records[1][5] != "" {
		t.Errorf("optional fields = %q, %q; want empty", records[1][4], records[1][5])
	}
}

func TestExportStoreError(t *testing.T) {
	lister := &fakeLister{err: core.ErrStoreUnavailable}
	exporter := NewCSVExporter(lister, testLogger(), 100)

	_, err := exporter.Export(context.Background(), "owner-1", testRange(t))
	if !errors.Is(err, core.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want store error", err)
	}
}
