// Package worker mirrors stored transactions to the backup sheet. It is
// driven by queue messages and, as a safety net, by a periodic drain of rows
// still marked pending.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kudi/internal/amqp"
	"kudi/internal/sheets"
	"kudi/internal/storage"
)

// BackupWorker copies transactions from the store to the backup writer.
type BackupWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.TransactionWriter
	batchSize int
}

func NewBackupWorker(storage *storage.SQLiteRepository, writer sheets.TransactionWriter, batchSize int) *BackupWorker {
	if batchSize < 1 {
		batchSize = 50
	}
	return &BackupWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleBackupMessage processes one queue message: fetch the current row and
// mirror it. A transaction deleted since the message was published is
// acknowledged and skipped.
func (w *BackupWorker) HandleBackupMessage(ctx context.Context, msg *amqp.TransactionBackupMessage) error {
	slog.InfoContext(ctx, "Processing backup message", "transaction_id", msg.ID)

	tx, err := w.storage.GetTransactionByID(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction gone before backup, skipping", "transaction_id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.backupOne(ctx, tx.ID, func() error {
		_, err := w.writer.Append(ctx, tx)
		return err
	})
}

// ProcessPending drains rows still marked pending. This is the catch-up path
// for messages lost while the queue or worker was down. Rows are processed
// one at a time; SQLite allows a single writer and concurrent status updates
// fail with SQLITE_BUSY.
func (w *BackupWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingBackups(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending backups: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending backups", "count", len(pending))

	for _, tx := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := w.backupOne(ctx, tx.ID, func() error {
			_, err := w.writer.Append(ctx, tx)
			return err
		})
		if err != nil {
			// one bad row must not stall the drain
			slog.ErrorContext(ctx, "Pending backup failed",
				"transaction_id", tx.ID, "error", err)
		}
	}
	return nil
}

func (w *BackupWorker) backupOne(ctx context.Context, id string, appendFn func() error) error {
	if err := appendFn(); err != nil {
		if markErr := w.storage.MarkBackupError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark backup error",
				"transaction_id", id, "error", markErr)
		}
		return fmt.Errorf("append to backup sheet: %w", err)
	}

	if err := w.storage.MarkBackedUp(ctx, id); err != nil {
		return fmt.Errorf("mark backed up: %w", err)
	}

	slog.InfoContext(ctx, "Transaction backed up", "transaction_id", id)
	return nil
}

// StartupCheck drains the pending backlog once before consuming the queue.
func (w *BackupWorker) StartupCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup backup check")
	if err := w.ProcessPending(ctx); err != nil {
		return fmt.Errorf("startup pending drain: %w", err)
	}
	return nil
}
