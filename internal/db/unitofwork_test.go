package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/metraj/internal/db"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func insertProject(ctx context.Context, tx db.DBTX, id, shortID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO projects (id, short_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, shortID, "Proje "+shortID, now, now)
	return err
}

func projectCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&n))
	return n
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	database := openMemory(t)
	uow := db.NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertProject(ctx, tx, "p1", "ABC01")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, projectCount(t, database))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database := openMemory(t)
	uow := db.NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "p1", "ABC01"); err != nil {
			return err
		}
		return errors.New("line item rejected")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line item rejected")
	assert.Zero(t, projectCount(t, database))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database := openMemory(t)
	uow := db.NewSQLiteUnitOfWork(database)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "p1", "ABC01")
			panic("boom")
		})
	})
	assert.Zero(t, projectCount(t, database))
}

func TestWithinTx_NestedCallJoinsOuterTx(t *testing.T) {
	database := openMemory(t)
	uow := db.NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "p1", "ABC01"); err != nil {
			return err
		}
		// A second BeginTx would block on the single in-memory connection.
		if err := uow.WithinTx(ctx, func(ctx context.Context, inner db.DBTX) error {
			assert.Same(t, tx, inner)
			return insertProject(ctx, inner, "p2", "ABC02")
		}); err != nil {
			return err
		}
		return errors.New("abort both")
	})
	require.Error(t, err)
	assert.Zero(t, projectCount(t, database), "inner writes roll back with the outer tx")
}

func TestOpenDB_FileEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "metraj.db")
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	ctx := context.Background()
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		conns[i], err = database.Conn(ctx)
		require.NoError(t, err)
		defer conns[i].Close()
	}
	for _, c := range conns {
		var fk int
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		assert.Equal(t, 1, fk)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = database.Exec(
		`INSERT INTO line_items (id, project_id, category, created_at, updated_at) VALUES ('i1', 'missing', 'Concrete', ?, ?)`,
		now, now)
	assert.Error(t, err, "line item without a project violates the foreign key")
}
