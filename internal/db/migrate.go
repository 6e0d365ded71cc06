package db

import (
	"database/sql"
	"strings"

	"github.com/cockroachdb/errors"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// full list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return errors.Wrapf(err, "migration %d", i)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		location    TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS line_items (
		id                TEXT PRIMARY KEY,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		poz_code          TEXT NOT NULL DEFAULT '',
		unit              TEXT NOT NULL DEFAULT '',
		category          TEXT NOT NULL
		                  CHECK(category IN ('Concrete','Formwork','Reinforcement','Finishing')),
		x                 REAL,
		y                 REAL,
		z                 REAL,
		multiplier        REAL,
		count             REAL,
		unit_weight       REAL,
		total_quantity    REAL NOT NULL DEFAULT 0,
		computed_quantity REAL NOT NULL DEFAULT 0,
		order_index       INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_line_items_project ON line_items(project_id)`,

	`CREATE TABLE IF NOT EXISTS analysis_reports (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		risk_score    INTEGER NOT NULL CHECK(risk_score BETWEEN 0 AND 100),
		summary       TEXT NOT NULL DEFAULT '',
		findings_json TEXT NOT NULL DEFAULT '[]',
		source        TEXT NOT NULL DEFAULT 'deterministic'
		              CHECK(source IN ('llm','deterministic')),
		model         TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_analysis_reports_project ON analysis_reports(project_id, created_at)`,

	// Free-text description shown next to the poz code.
	`ALTER TABLE line_items ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
}
