// Package services orchestrates transaction writes across the store and the
// backup queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kudi/internal/amqp"
	"kudi/internal/core"
	"kudi/internal/storage"
)

// BackupPublisher enqueues backup requests. Nil-able: without a queue the
// pending drain still picks rows up eventually.
type BackupPublisher interface {
	PublishTransactionBackup(ctx context.Context, id string) error
}

type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher BackupPublisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher BackupPublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateTransaction validates, persists, and enqueues the backup. A publish
// failure is logged but never fails the request; the row is already safe in
// the store and stays pending for the drain.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishBackup(ctx, tx.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish backup message",
			"transaction_id", tx.ID, "error", err)
	}

	return tx, nil
}

// DeleteTransaction soft deletes the owner's transaction.
func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := s.storage.SoftDeleteTransaction(ctx, ownerID, id); err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	return nil
}

// ListTransactions returns one page of the owner's transactions.
func (s *TransactionService) ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]core.Transaction, error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}
	return s.storage.ListTransactions(ctx, f)
}

func (s *TransactionService) publishBackup(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Backup publisher not available, skipping message")
		return nil
	}
	return s.publisher.PublishTransactionBackup(ctx, id)
}

// Close closes the store and, when present, the queue connection.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.publisher.(*amqp.Client); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
