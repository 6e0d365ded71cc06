package repository

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/metraj/internal/db"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/cockroachdb/errors"
)

// lineItemColumns is the canonical SELECT column list for line_items.
const lineItemColumns = `id, project_id, poz_code, description, unit, category,
		x, y, z, multiplier, count, unit_weight,
		total_quantity, computed_quantity, order_index, created_at, updated_at`

// SQLiteLineItemRepo implements LineItemRepo using a SQLite database.
type SQLiteLineItemRepo struct {
	db db.DBTX
}

// NewSQLiteLineItemRepo creates a new SQLiteLineItemRepo.
func NewSQLiteLineItemRepo(db db.DBTX) *SQLiteLineItemRepo {
	return &SQLiteLineItemRepo{db: db}
}

func (r *SQLiteLineItemRepo) Create(ctx context.Context, li *domain.LineItem) error {
	query := `INSERT INTO line_items (` + lineItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		li.ID,
		li.ProjectID,
		li.PozCode,
		li.Description,
		li.Unit,
		string(li.Category),
		sqlFloat(li.X),
		sqlFloat(li.Y),
		sqlFloat(li.Z),
		sqlFloat(li.Multiplier),
		sqlFloat(li.Count),
		sqlFloat(li.UnitWeight),
		li.TotalQuantity,
		li.ComputedQuantity,
		li.OrderIndex,
		formatTS(li.CreatedAt),
		formatTS(li.UpdatedAt),
	)
	if err != nil {
		return errors.Wrap(err, "inserting line item")
	}
	return nil
}

func (r *SQLiteLineItemRepo) GetByID(ctx context.Context, id string) (*domain.LineItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+lineItemColumns+` FROM line_items WHERE id = ?`, id)
	return scanLineItem(row)
}

// ListByProject returns a project's items in entry order.
func (r *SQLiteLineItemRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lineItemColumns+` FROM line_items WHERE project_id = ? ORDER BY order_index, created_at`, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "listing line items")
	}
	return collect(rows, scanLineItem, "line items")
}

func (r *SQLiteLineItemRepo) Update(ctx context.Context, li *domain.LineItem) error {
	query := `UPDATE line_items SET poz_code = ?, description = ?, unit = ?, category = ?,
		x = ?, y = ?, z = ?, multiplier = ?, count = ?, unit_weight = ?,
		total_quantity = ?, computed_quantity = ?, order_index = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		li.PozCode,
		li.Description,
		li.Unit,
		string(li.Category),
		sqlFloat(li.X),
		sqlFloat(li.Y),
		sqlFloat(li.Z),
		sqlFloat(li.Multiplier),
		sqlFloat(li.Count),
		sqlFloat(li.UnitWeight),
		li.TotalQuantity,
		li.ComputedQuantity,
		li.OrderIndex,
		formatTS(li.UpdatedAt),
		li.ID,
	)
	if err != nil {
		return errors.Wrap(err, "updating line item")
	}
	return requireAffected(res, "line item")
}

func (r *SQLiteLineItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM line_items WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting line item")
	}
	return requireAffected(res, "line item")
}

// NextOrderIndex returns the index that appends a new item after the
// project's current last item.
func (r *SQLiteLineItemRepo) NextOrderIndex(ctx context.Context, projectID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index), -1) + 1 FROM line_items WHERE project_id = ?`, projectID).Scan(&next)
	if err != nil {
		return 0, errors.Wrap(err, "computing next order index")
	}
	return next, nil
}

func scanLineItem(row rowScanner) (*domain.LineItem, error) {
	var li domain.LineItem
	var category, createdAtStr, updatedAtStr string
	var x, y, z, mult, count, unitWeight sql.NullFloat64

	err := row.Scan(
		&li.ID, &li.ProjectID, &li.PozCode, &li.Description, &li.Unit, &category,
		&x, &y, &z, &mult, &count, &unitWeight,
		&li.TotalQuantity, &li.ComputedQuantity, &li.OrderIndex,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, scanErr(err, "line item")
	}

	li.Category = domain.Category(category)
	li.X = scanFloat(x)
	li.Y = scanFloat(y)
	li.Z = scanFloat(z)
	li.Multiplier = scanFloat(mult)
	li.Count = scanFloat(count)
	li.UnitWeight = scanFloat(unitWeight)

	if li.CreatedAt, err = parseTS(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	if li.UpdatedAt, err = parseTS(updatedAtStr, "updated_at"); err != nil {
		return nil, err
	}
	return &li, nil
}
