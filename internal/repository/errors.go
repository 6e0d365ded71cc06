package repository

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound is returned when a lookup or mutation matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would break a uniqueness rule,
	// such as a second project with the same short ID.
	ErrConflict = errors.New("already exists")
)
