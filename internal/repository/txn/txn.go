// Package txn lets services group repository writes into one database
// transaction without knowing which backend is in use.
package txn

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Runner executes fn atomically when the backend supports it.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether a failed WithinTx discards every write fn made.
	Atomic() bool
}

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

type postgresRunner struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Runner that opens a pgx transaction per call. Nested
// calls join the outer transaction.
func NewPostgres(pool *pgxpool.Pool) Runner {
	return &postgresRunner{pool: pool}
}

func (r *postgresRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *postgresRunner) Atomic() bool {
	return true
}

// From returns the transaction bound to ctx, or pool when there is none.
func From(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// Passthrough runs fn directly. Used by the Mongo backend, where writes are
// atomic per document only, and by tests.
type Passthrough struct{}

func (Passthrough) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Passthrough) Atomic() bool {
	return false
}
