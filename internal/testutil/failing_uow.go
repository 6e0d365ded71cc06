package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/metraj/internal/db"
)

// FailingUoW wraps a UnitOfWork and makes the FailOn-th write (counted from
// 1 within each transaction) return Err. Reads are never intercepted. The
// inner UnitOfWork still decides commit and rollback, so tests observe the
// real rollback path.
type FailingUoW struct {
	Inner  db.UnitOfWork
	FailOn int
	Err    error
}

// NewFailingUoW wraps a fresh SQLite unit of work over database.
func NewFailingUoW(database *sql.DB, failOn int, err error) *FailingUoW {
	return &FailingUoW{Inner: db.NewSQLiteUnitOfWork(database), FailOn: failOn, Err: err}
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failingTx struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
