package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const sourceHealthColumns = `source_config_id, last_job_id, last_attempt_at, last_success_at, last_fingerprint, consecutive_failures, total_runs, total_failures, current_record_count, baseline_record_count, healthy, message, updated_at`

func scanSourceHealth(row interface{ Scan(...interface{}) error }) (SourceHealth, error) {
	var h SourceHealth
	err := row.Scan(
		&h.SourceConfigID,
		&h.LastJobID,
		&h.LastAttemptAt,
		&h.LastSuccessAt,
		&h.LastFingerprint,
		&h.ConsecutiveFailures,
		&h.TotalRuns,
		&h.TotalFailures,
		&h.CurrentRecordCount,
		&h.BaselineRecordCount,
		&h.Healthy,
		&h.Message,
		&h.UpdatedAt,
	)
	return h, err
}

const upsertSourceHealth = `
INSERT INTO source_health (` + sourceHealthColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (source_config_id) DO UPDATE
SET last_job_id = EXCLUDED.last_job_id,
    last_attempt_at = EXCLUDED.last_attempt_at,
    last_success_at = EXCLUDED.last_success_at,
    last_fingerprint = EXCLUDED.last_fingerprint,
    consecutive_failures = EXCLUDED.consecutive_failures,
    total_runs = EXCLUDED.total_runs,
    total_failures = EXCLUDED.total_failures,
    current_record_count = EXCLUDED.current_record_count,
    baseline_record_count = EXCLUDED.baseline_record_count,
    healthy = EXCLUDED.healthy,
    message = EXCLUDED.message,
    updated_at = EXCLUDED.updated_at
RETURNING ` + sourceHealthColumns

// UpsertSourceHealthParams holds the parameters for UpsertSourceHealth
type UpsertSourceHealthParams struct {
	SourceConfigID      string
	LastJobID           pgtype.Text
	LastAttemptAt       pgtype.Timestamptz
	LastSuccessAt       pgtype.Timestamptz
	LastFingerprint     pgtype.Text
	ConsecutiveFailures int32
	TotalRuns           int32
	TotalFailures       int32
	CurrentRecordCount  int32
	BaselineRecordCount int32
	Healthy             bool
	Message             pgtype.Text
	UpdatedAt           time.Time
}

// UpsertSourceHealth writes the full health row for one source
func (q *Queries) UpsertSourceHealth(ctx context.Context, arg UpsertSourceHealthParams) (SourceHealth, error) {
	row := q.db.QueryRow(ctx, upsertSourceHealth,
		arg.SourceConfigID,
		arg.LastJobID,
		arg.LastAttemptAt,
		arg.LastSuccessAt,
		arg.LastFingerprint,
		arg.ConsecutiveFailures,
		arg.TotalRuns,
		arg.TotalFailures,
		arg.CurrentRecordCount,
		arg.BaselineRecordCount,
		arg.Healthy,
		arg.Message,
		arg.UpdatedAt,
	)
	return scanSourceHealth(row)
}

const getSourceHealth = `SELECT ` + sourceHealthColumns + ` FROM source_health WHERE source_config_id = $1`

// GetSourceHealth gets the health row for one source
func (q *Queries) GetSourceHealth(ctx context.Context, sourceConfigID string) (SourceHealth, error) {
	row := q.db.QueryRow(ctx, getSourceHealth, sourceConfigID)
	return scanSourceHealth(row)
}

const getAllSourceHealth = `SELECT ` + sourceHealthColumns + ` FROM source_health`

// GetAllSourceHealth lists every health row
func (q *Queries) GetAllSourceHealth(ctx context.Context) ([]SourceHealth, error) {
	rows, err := q.db.Query(ctx, getAllSourceHealth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SourceHealth
	for rows.Next() {
		h, err := scanSourceHealth(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}
