// Package export renders transaction listings into downloadable documents.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"kudi/internal/core"
	"kudi/internal/log"
)

// DefaultRowCap bounds export size when no cap is configured.
const DefaultRowCap = 5000

var csvHeader = []string{"id", "amount", "currency", "description", "category", "categoryId", "date", "createdAt"}

// TransactionLister is the store surface the exporter needs.
type TransactionLister interface {
	ListForExport(ctx context.Context, ownerID string, pr core.PeriodRange, limit int) ([]core.Transaction, error)
}

// Document is a finished export: a suggested filename plus the full content.
type Document struct {
	Filename string
	Content  []byte
}

type CSVExporter struct {
	store  TransactionLister
	logger *log.Logger
	rowCap int
}

func NewCSVExporter(store TransactionLister, logger *log.Logger, rowCap int) *CSVExporter {
	if rowCap < 1 {
		rowCap = DefaultRowCap
	}
	return &CSVExporter{
		store:  store,
		logger: logger.WithComponent(log.ComponentExport),
		rowCap: rowCap,
	}
}

// Export writes the owner's transactions inside the window as CSV, newest
// first. When the result would exceed the row cap it fails with
// ErrExportTooLarge and produces no output at all; there are no partial
// files. An empty window yields a header-only document.
func (e *CSVExporter) Export(ctx context.Context, ownerID string, pr core.PeriodRange) (*Document, error) {
	// one extra row distinguishes "exactly at cap" from "over cap"
	rows, err := e.store.ListForExport(ctx, ownerID, pr, e.rowCap+1)
	if err != nil {
		return nil, fmt.Errorf("export query: %w", err)
	}
	if len(rows) > e.rowCap {
		e.logger.WarnContext(ctx, "Export rejected, row cap exceeded",
			log.FieldOwnerID, ownerID, log.FieldRowCap, e.rowCap)
		return nil, core.ErrExportTooLarge
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range rows {
		record := []string{
			tx.ID,
			core.FormatCents(tx.Amount.Cents),
			string(tx.Currency),
			tx.Description,
			tx.CategoryName,
			tx.CategoryID,
			tx.OccurredAt.UTC().Format(time.RFC3339),
			tx.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	e.logger.InfoContext(ctx, "Export completed",
		log.FieldOwnerID, ownerID, log.FieldRowCount, len(rows))

	return &Document{
		Filename: exportFilename(pr),
		Content:  buf.Bytes(),
	}, nil
}

func exportFilename(pr core.PeriodRange) string {
	// To is exclusive; the last covered day is one before it
	last := pr.To.AddDate(0, 0, -1)
	return fmt.Sprintf("transactions_%s_%s.csv",
		pr.From.Format("2006-01-02"), last.Format("2006-01-02"))
}
