package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jask/payrecon/internal/database"
)

// ImportRepo records one audit row per import run.
type ImportRepo struct{ db DBTX }

func NewImportRepo(db DBTX) *ImportRepo { return &ImportRepo{db: db} }

func (r *ImportRepo) Start(ctx context.Context, run ImportRun) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO imports(id, filename, rows_total, started_at) VALUES(?, ?, ?, ?)`,
		run.ID, run.Filename, run.Total, run.StartedAt.UTC().Format(time.RFC3339))
	return err
}

func (r *ImportRepo) Finish(ctx context.Context, run ImportRun) error {
	finished := database.Now()
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}
	_, err := r.db.ExecContext(ctx, `
	UPDATE imports SET rows_total = ?, rows_written = ?, rows_skipped = ?, rows_failed = ?, finished_at = ?
	WHERE id = ?`,
		run.Total, run.Written, run.Skipped, run.Failed, finished.Format(time.RFC3339), run.ID)
	return err
}

// List returns the most recent runs first. limit <= 0 means no limit.
func (r *ImportRepo) List(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, filename, rows_total, rows_written, rows_skipped, rows_failed, started_at, finished_at
	FROM imports ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ImportRun
	for rows.Next() {
		var run ImportRun
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &run.Filename, &run.Total, &run.Written, &run.Skipped, &run.Failed, &started, &finished); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			run.StartedAt = t
		}
		if finished.Valid {
			if t, err := time.Parse(time.RFC3339, finished.String); err == nil {
				run.FinishedAt = &t
			}
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
