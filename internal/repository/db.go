package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/support-desk/internal/domain"
	errorutil "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// DBTX is the query surface shared by a pgx pool and a pgx transaction, so
// repository code can run inside or outside a transaction unchanged.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the handle repositories hold: queryable directly and able to open
// transactions. *pgxpool.Pool satisfies it.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// writeWithAudit runs a mutation and its audit append as one transaction.
// A ticket mutation and its activity entry must be atomic as observed by any
// reader. When the store cannot open a transaction the write degrades to
// append-before-acknowledge ordering: the mutation is applied first, and a
// failed audit append surfaces as a partial-write error so operators can
// reconcile.
func writeWithAudit(ctx context.Context, db Pool, write func(DBTX) error, entry *domain.ActivityEntry) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		if err := write(db); err != nil {
			return err
		}
		if err := insertActivity(ctx, db, entry); err != nil {
			return errorutil.NewPartialWriteError(
				"mutation applied but audit entry was not written",
				map[string]any{
					"ticket_id":  entry.TicketID,
					"event_type": string(entry.EventType),
				}, err)
		}
		return nil
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := write(tx); err != nil {
		return err
	}
	if err := insertActivity(ctx, tx, entry); err != nil {
		return errorutil.NewBackendError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return errorutil.NewBackendError(err)
	}
	return nil
}
