package database

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
)

// DB is the subset of *sqlx.DB the stores use, plus context-carried transactions.
type DB interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Close() error
	DriverName() string
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, Tx, error)
}

type DatabaseInstance struct {
	*sqlx.DB
	logger ectologger.Logger
}

func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger) DB {
	return &DatabaseInstance{
		DB:     db,
		logger: logger,
	}
}

func (db *DatabaseInstance) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, Tx, error) {
	return GetTx(ctx, db.logger, db, opts)
}
