package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexanderramin/metraj/internal/db"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/cockroachdb/errors"
)

// reportTimeLayout keeps a fixed-width fraction so created_at sorts lexically.
const reportTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const analysisColumns = `id, project_id, risk_score, summary, findings_json, source, model, created_at`

// SQLiteAnalysisRepo stores risk reports with their findings serialized as JSON.
type SQLiteAnalysisRepo struct {
	db db.DBTX
}

func NewSQLiteAnalysisRepo(db db.DBTX) *SQLiteAnalysisRepo {
	return &SQLiteAnalysisRepo{db: db}
}

func (r *SQLiteAnalysisRepo) Create(ctx context.Context, rep *domain.RiskReport) error {
	findings := rep.Findings
	if findings == nil {
		findings = []domain.RiskFinding{}
	}
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return errors.Wrap(err, "encoding findings")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO analysis_reports (`+analysisColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID,
		rep.ProjectID,
		rep.RiskScore,
		rep.Summary,
		string(findingsJSON),
		string(rep.Source),
		rep.Model,
		rep.CreatedAt.UTC().Format(reportTimeLayout),
	)
	if err != nil {
		return errors.Wrap(err, "inserting analysis report")
	}
	return nil
}

// ListByProject returns the newest reports first. A non-positive limit
// returns every report.
func (r *SQLiteAnalysisRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.RiskReport, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM analysis_reports WHERE project_id = ?
		ORDER BY created_at DESC LIMIT ?`, projectID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing analysis reports")
	}
	return collect(rows, scanReport, "analysis reports")
}

func (r *SQLiteAnalysisRepo) Latest(ctx context.Context, projectID string) (*domain.RiskReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+analysisColumns+` FROM analysis_reports WHERE project_id = ?
		ORDER BY created_at DESC LIMIT 1`, projectID)
	return scanReport(row)
}

func scanReport(row rowScanner) (*domain.RiskReport, error) {
	var rep domain.RiskReport
	var findingsJSON, source, createdAtStr string

	err := row.Scan(&rep.ID, &rep.ProjectID, &rep.RiskScore, &rep.Summary,
		&findingsJSON, &source, &rep.Model, &createdAtStr)
	if err != nil {
		return nil, scanErr(err, "analysis report")
	}

	rep.Source = domain.ReportSource(source)
	if err := json.Unmarshal([]byte(findingsJSON), &rep.Findings); err != nil {
		return nil, errors.Wrap(err, "decoding findings")
	}
	if rep.CreatedAt, err = time.Parse(reportTimeLayout, createdAtStr); err != nil {
		return nil, errors.Wrap(err, "parsing created_at")
	}
	return &rep, nil
}
