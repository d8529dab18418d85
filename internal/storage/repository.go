package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kudi/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a transaction id does not exist for the owner.
var ErrNotFound = errors.New("transaction not found")

// timeLayout is the canonical column format for timestamps. Storing UTC text
// keeps lexicographic comparison and substr() month grouping correct.
const timeLayout = "2006-01-02 15:04:05"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// storeErr classifies a failed store round trip. Query failures surface as
// ErrStoreUnavailable so callers can tell an outage from an empty result.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStoreUnavailable, err)
}

// SQLiteRepository is the transaction store. The embedded *sql.DB is a
// connection pool shared safely across concurrent report requests.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction appends one transaction. The row starts in backup status
// 'pending' until the worker has mirrored it to the backup sheet.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, owner_id, amount_cents, currency, description, category_id, category_name, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, tx.Amount.Cents, string(tx.Currency), tx.Description,
		nullable(tx.CategoryID), nullable(tx.CategoryName),
		fmtTime(tx.OccurredAt), fmtTime(tx.CreatedAt),
	)
	if err != nil {
		return storeErr("create transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", tx.ID,
		"owner_id", tx.OwnerID,
		"amount_cents", tx.Amount.Cents,
		"currency", tx.Currency)

	return nil
}

// GetTransaction loads one transaction scoped to its owner.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		id, ownerID,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// GetTransactionByID loads one transaction regardless of owner. Used by the
// backup worker, which processes ids taken from the queue, not from callers.
func (r *SQLiteRepository) GetTransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return tx, nil
}

// ListTransactions returns one page of matching transactions, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	where, args := f.whereClause()
	args = append(args, f.Limit, f.offset())

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE `+where+`
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListForExport returns up to limit transactions inside the half-open window,
// newest first. The exporter asks for cap+1 to detect oversized results.
func (r *SQLiteRepository) ListForExport(ctx context.Context, ownerID string, pr core.PeriodRange, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE owner_id = ? AND deleted_at IS NULL
		  AND occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT ?`,
		ownerID, fmtTime(pr.From), fmtTime(pr.To), limit,
	)
	if err != nil {
		return nil, storeErr("list for export", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SoftDeleteTransaction marks a transaction deleted without removing the row.
func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET deleted_at = ?
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		fmtTime(time.Now()), id, ownerID,
	)
	if err != nil {
		return storeErr("soft delete transaction", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction soft deleted", "transaction_id", id, "owner_id", ownerID)
	return nil
}

// GetPendingBackups returns transactions not yet mirrored to the backup
// sheet, oldest first.
func (r *SQLiteRepository) GetPendingBackups(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE backup_status = 'pending' AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, storeErr("get pending backups", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// MarkBackedUp records that a transaction reached the backup sheet.
func (r *SQLiteRepository) MarkBackedUp(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET backup_status = 'synced', backed_up_at = ? WHERE id = ?`,
		fmtTime(time.Now()), id,
	); err != nil {
		return storeErr("mark backed up", err)
	}
	return nil
}

// MarkBackupError flags a transaction whose backup attempt failed.
func (r *SQLiteRepository) MarkBackupError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET backup_status = 'error' WHERE id = ?`,
		id,
	); err != nil {
		return storeErr("mark backup error", err)
	}
	slog.WarnContext(ctx, "Transaction marked with backup error", "transaction_id", id)
	return nil
}

const txColumns = `id, owner_id, amount_cents, currency, description,
	COALESCE(category_id, ''), COALESCE(category_name, ''), occurred_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                   core.Transaction
		currency             string
		occurredAt, createdAt string
	)
	if err := row.Scan(&tx.ID, &tx.OwnerID, &tx.Amount.Cents, &currency, &tx.Description,
		&tx.CategoryID, &tx.CategoryName, &occurredAt, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	tx.Currency = core.Currency(currency)

	var err error
	if tx.OccurredAt, err = parseStoredTime(occurredAt); err != nil {
		return core.Transaction{}, err
	}
	if tx.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate transactions", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
