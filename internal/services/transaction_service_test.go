package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kudi/internal/core"
	"kudi/internal/storage"
)

type recordingPublisher struct {
	ids []string
	err error
}

func (p *recordingPublisher) PublishTransactionBackup(_ context.Context, id string) error {
	if p.err != nil {
		return p.err
	}
	p.ids = append(p.ids, id)
	return nil
}

func newService(t *testing.T, pub BackupPublisher) *TransactionService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewTransactionService(repo, pub)
}

func validTx() core.Transaction {
	return core.Transaction{
		OwnerID:     "owner-1",
		Amount:      core.Money{Cents: 1500},
		Currency:    core.NGN,
		Description: "market run",
		OccurredAt:  time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateTransaction(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)

	created, err := svc.CreateTransaction(context.Background(), validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Error("id should be assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("created at should be set")
	}
	if len(pub.ids) != 1 || pub.ids[0] != created.ID {
		t.Errorf("published = %v, want [%s]", pub.ids, created.ID)
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)

	tx := validTx()
	tx.Currency = "EUR"

	if _, err := svc.CreateTransaction(context.Background(), tx); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(pub.ids) != 0 {
		t.Error("invalid transaction must not publish")
	}
}

func TestCreateTransactionSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newService(t, pub)

	created, err := svc.CreateTransaction(context.Background(), validTx())
	if err != nil {
		t.Fatalf("publish failure must not fail the create: %v", err)
	}

	f := storage.TransactionFilter{OwnerID: "owner-1"}
	rows, err := svc.ListTransactions(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != created.ID {
		t.Errorf("rows = %v", rows)
	}
}

func TestCreateTransactionWithoutPublisher(t *testing.T) {
	svc := newService(t, nil)

	if _, err := svc.CreateTransaction(context.Background(), validTx()); err != nil {
		t.Fatalf("nil publisher must not fail the create: %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, validTx())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteTransaction(ctx, "owner-1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, "owner-1", created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete = %v, want not found", err)
	}
}
