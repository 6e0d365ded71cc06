package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// tsLayout is the storage format of created_at, updated_at and archived_at.
const tsLayout = time.RFC3339

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// collect drains rows through scan and closes them.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error), what string) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterating %s", what)
	}
	return out, nil
}

// scanErr maps a missing row onto ErrNotFound.
func scanErr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrapf(err, "scanning %s", what)
}

// requireAffected turns a zero-row mutation into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "checking %s rows affected", what)
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, what)
	}
	return nil
}

// isUniqueViolation reports whether err came from a UNIQUE constraint or
// index. The driver only exposes this through the message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(s, column string) (time.Time, error) {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing %s", column)
	}
	return t, nil
}

// optionalTS stores a nil time as NULL.
func optionalTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTS(*t)
}

// scanOptionalTS reads a nullable timestamp column; NULL and "" are nil.
func scanOptionalTS(s sql.NullString, column string) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTS(s.String, column)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// sqlFloat stores an absent measurement as NULL so it reads back as absent
// rather than as an explicit zero.
func sqlFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func scanFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
