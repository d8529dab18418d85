package sheets

import (
	"context"

	"kudi/internal/core"
)

// TransactionWriter mirrors transactions to an external backup destination.
type TransactionWriter interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
