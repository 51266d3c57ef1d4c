package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext retrieves the transaction carried by ctx, if any. Repositories
// check this before falling back to the shared pool so that every statement a
// workflow issues lands on the same transaction.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// Manager runs a function inside a single database transaction. Services
// depend on this interface rather than the pool directly so unit tests can
// substitute a passthrough.
type Manager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgxManager struct {
	pool *pgxpool.Pool
}

// NewManager returns a Manager backed by the given pool. Transactions run at
// the pool's default isolation level (read committed), which is enough to keep
// concurrent writes to the same row from interleaving partially.
func NewManager(pool *pgxpool.Pool) Manager {
	return &pgxManager{pool: pool}
}

func (m *pgxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the enclosing transaction.
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
