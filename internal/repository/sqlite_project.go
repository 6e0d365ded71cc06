package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alexanderramin/metraj/internal/db"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/cockroachdb/errors"
)

const projectColumns = `id, short_id, name, location, status, archived_at, created_at, updated_at`

// SQLiteProjectRepo stores projects. Short IDs are unique; a clash surfaces
// as ErrConflict.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ShortID, p.Name, p.Location, string(p.Status),
		optionalTS(p.ArchivedAt), formatTS(p.CreatedAt), formatTS(p.UpdatedAt),
	)
	return r.writeErr(err, "inserting", p.ShortID)
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
}

// GetByShortID matches case-insensitively.
func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE UPPER(short_id) = UPPER(?)`, shortID))
}

// List returns projects oldest first. Archived projects are skipped unless
// includeArchived is set.
func (r *SQLiteProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	where := ` WHERE archived_at IS NULL`
	if includeArchived {
		where = ``
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects`+where+` ORDER BY created_at, short_id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing projects")
	}
	return collect(rows, scanProject, "projects")
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET short_id = ?, name = ?, location = ?, status = ?, updated_at = ? WHERE id = ?`,
		p.ShortID, p.Name, p.Location, string(p.Status), formatTS(p.UpdatedAt), p.ID,
	)
	if err := r.writeErr(err, "updating", p.ShortID); err != nil {
		return err
	}
	return requireAffected(res, "project")
}

func (r *SQLiteProjectRepo) Archive(ctx context.Context, id string) error {
	now := time.Now()
	return r.setStatus(ctx, id, domain.ProjectArchived, &now)
}

func (r *SQLiteProjectRepo) Unarchive(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, domain.ProjectActive, nil)
}

// Delete removes the project; its line items and reports cascade.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting project")
	}
	return requireAffected(res, "project")
}

func (r *SQLiteProjectRepo) setStatus(ctx context.Context, id string, status domain.ProjectStatus, archivedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, archived_at = ?, updated_at = ? WHERE id = ?`,
		string(status), optionalTS(archivedAt), formatTS(time.Now()), id)
	if err != nil {
		return errors.Wrapf(err, "setting project %s", status)
	}
	return requireAffected(res, "project")
}

func (r *SQLiteProjectRepo) writeErr(err error, verb, shortID string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return errors.Wrapf(ErrConflict, "project short ID %q", shortID)
	default:
		return errors.Wrapf(err, "%s project", verb)
	}
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p                domain.Project
		status           string
		archivedAt       sql.NullString
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.ShortID, &p.Name, &p.Location, &status, &archivedAt, &created, &updated); err != nil {
		return nil, scanErr(err, "project")
	}

	p.Status = domain.ProjectStatus(status)

	var err error
	if p.ArchivedAt, err = scanOptionalTS(archivedAt, "archived_at"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTS(created, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTS(updated, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
