package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
)

type TxContextKey string

const txKey = TxContextKey("tx-context-key")

type Tx interface {
	IsOpen() bool
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Transaction wraps sqlx.Tx. Only the owner, the caller that began it, may commit or roll back.
// A nested GetTx on the same context joins the open transaction without owning it.
type Transaction struct {
	*sqlx.Tx
	logger   ectologger.Logger
	owner    bool
	isClosed *bool
}

func NewTx(tx *sqlx.Tx, logger ectologger.Logger) *Transaction {
	closed := false
	return &Transaction{
		Tx:       tx,
		logger:   logger,
		owner:    true,
		isClosed: &closed,
	}
}

func GetTx(ctx context.Context, logger ectologger.Logger, db DB, opts *sql.TxOptions) (context.Context, Tx, error) {
	if ctxTx, ok := ctx.Value(txKey).(*Transaction); ok && ctxTx != nil && ctxTx.IsOpen() {
		return ctx, &Transaction{Tx: ctxTx.Tx, logger: ctxTx.logger, isClosed: ctxTx.isClosed}, nil
	}

	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Errorf("error while beginning transaction")
		return ctx, nil, fmt.Errorf("error while beginning transaction")
	}

	newTx := NewTx(tx, logger)
	return context.WithValue(ctx, txKey, newTx), newTx, nil
}

// WithTx runs fn inside a transaction and commits when fn returns nil.
func WithTx(ctx context.Context, db DB, fn func(ctx context.Context, tx Tx) error) error {
	ctx, tx, err := db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (t *Transaction) IsOpen() bool {
	return !*t.isClosed
}

func (t *Transaction) Rollback(ctx context.Context) error {
	if *t.isClosed || !t.owner {
		return nil
	}

	if err := t.Tx.Rollback(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while rolling back transaction")
		return fmt.Errorf("error while rolling back transaction")
	}

	*t.isClosed = true
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	if *t.isClosed || !t.owner {
		return nil
	}

	if err := t.Tx.Commit(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while committing transaction")
		return fmt.Errorf("error while committing transaction")
	}

	*t.isClosed = true
	return nil
}
