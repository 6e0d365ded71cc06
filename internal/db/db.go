// Package db opens the metraj SQLite store and provides transactional
// composition for the repositories.
package db

import (
	"database/sql"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// connPragmas are applied by the driver to every new connection, so pooled
// connections all enforce foreign keys and wait on locks.
var connPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// OpenDB opens the database at path, creating its directory if needed, and
// applies all migrations. File databases use WAL journaling. An in-memory
// database is pinned to a single connection because every connection to
// ":memory:" is a separate database.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating db directory")
		}
	}

	database, err := sql.Open("sqlite", dsn(path, memory))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if memory {
		database.SetMaxOpenConns(1)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "connecting to %s", path)
	}
	if err := Migrate(database); err != nil {
		database.Close()
		return nil, errors.Wrap(err, "running migrations")
	}
	return database, nil
}

func dsn(path string, memory bool) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	if !memory {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return path + "?" + q.Encode()
}
