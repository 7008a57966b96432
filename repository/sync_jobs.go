package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const syncJobColumns = `id, source_config_id, status, trigger_type, content_fingerprint, archive_path, rows_processed, records_added, records_updated, records_removed, records_unchanged, records_reactivated, validation_errors, warning, error_message, error_detail, started_at, completed_at, duration_ms, created_at`

func scanSyncJob(row interface{ Scan(...interface{}) error }) (SyncJob, error) {
	var j SyncJob
	err := row.Scan(
		&j.ID,
		&j.SourceConfigID,
		&j.Status,
		&j.TriggerType,
		&j.ContentFingerprint,
		&j.ArchivePath,
		&j.RowsProcessed,
		&j.RecordsAdded,
		&j.RecordsUpdated,
		&j.RecordsRemoved,
		&j.RecordsUnchanged,
		&j.RecordsReactivated,
		&j.ValidationErrors,
		&j.Warning,
		&j.ErrorMessage,
		&j.ErrorDetail,
		&j.StartedAt,
		&j.CompletedAt,
		&j.DurationMs,
		&j.CreatedAt,
	)
	return j, err
}

const createSyncJob = `
INSERT INTO sync_jobs (id, source_config_id, status, trigger_type, started_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + syncJobColumns

// CreateSyncJobParams holds the parameters for CreateSyncJob
type CreateSyncJobParams struct {
	ID             string
	SourceConfigID string
	Status         string
	TriggerType    string
	StartedAt      time.Time
	CreatedAt      time.Time
}

// CreateSyncJob inserts a new job row before any I/O happens
func (q *Queries) CreateSyncJob(ctx context.Context, arg CreateSyncJobParams) (SyncJob, error) {
	row := q.db.QueryRow(ctx, createSyncJob,
		arg.ID,
		arg.SourceConfigID,
		arg.Status,
		arg.TriggerType,
		arg.StartedAt,
		arg.CreatedAt,
	)
	return scanSyncJob(row)
}

const markSyncJobRunning = `
UPDATE sync_jobs
SET status = 'running', content_fingerprint = $2, archive_path = $3
WHERE id = $1
RETURNING ` + syncJobColumns

// MarkSyncJobRunningParams holds the parameters for MarkSyncJobRunning
type MarkSyncJobRunningParams struct {
	ID                 string
	ContentFingerprint pgtype.Text
	ArchivePath        pgtype.Text
}

// MarkSyncJobRunning transitions a job to running after a successful fetch
func (q *Queries) MarkSyncJobRunning(ctx context.Context, arg MarkSyncJobRunningParams) (SyncJob, error) {
	row := q.db.QueryRow(ctx, markSyncJobRunning, arg.ID, arg.ContentFingerprint, arg.ArchivePath)
	return scanSyncJob(row)
}

const completeSyncJob = `
UPDATE sync_jobs
SET status = 'completed',
    rows_processed = $2,
    records_added = $3,
    records_updated = $4,
    records_removed = $5,
    records_unchanged = $6,
    records_reactivated = $7,
    validation_errors = $8,
    warning = $9,
    content_fingerprint = $10,
    completed_at = $11,
    duration_ms = $12
WHERE id = $1
RETURNING ` + syncJobColumns

// CompleteSyncJobParams holds the parameters for CompleteSyncJob
type CompleteSyncJobParams struct {
	ID                 string
	RowsProcessed      int32
	RecordsAdded       int32
	RecordsUpdated     int32
	RecordsRemoved     int32
	RecordsUnchanged   int32
	RecordsReactivated int32
	ValidationErrors   int32
	Warning            pgtype.Text
	ContentFingerprint pgtype.Text
	CompletedAt        pgtype.Timestamptz
	DurationMs         pgtype.Int8
}

// CompleteSyncJob finalizes a successful job with its metrics
func (q *Queries) CompleteSyncJob(ctx context.Context, arg CompleteSyncJobParams) (SyncJob, error) {
	row := q.db.QueryRow(ctx, completeSyncJob,
		arg.ID,
		arg.RowsProcessed,
		arg.RecordsAdded,
		arg.RecordsUpdated,
		arg.RecordsRemoved,
		arg.RecordsUnchanged,
		arg.RecordsReactivated,
		arg.ValidationErrors,
		arg.Warning,
		arg.ContentFingerprint,
		arg.CompletedAt,
		arg.DurationMs,
	)
	return scanSyncJob(row)
}

const failSyncJob = `
UPDATE sync_jobs
SET status = 'failed', error_message = $2, error_detail = $3, completed_at = $4, duration_ms = $5
WHERE id = $1
RETURNING ` + syncJobColumns

// FailSyncJobParams holds the parameters for FailSyncJob
type FailSyncJobParams struct {
	ID           string
	ErrorMessage pgtype.Text
	ErrorDetail  pgtype.Text
	CompletedAt  pgtype.Timestamptz
	DurationMs   pgtype.Int8
}

// FailSyncJob finalizes a failed job with the captured error
func (q *Queries) FailSyncJob(ctx context.Context, arg FailSyncJobParams) (SyncJob, error) {
	row := q.db.QueryRow(ctx, failSyncJob,
		arg.ID,
		arg.ErrorMessage,
		arg.ErrorDetail,
		arg.CompletedAt,
		arg.DurationMs,
	)
	return scanSyncJob(row)
}

const getSyncJobById = `SELECT ` + syncJobColumns + ` FROM sync_jobs WHERE id = $1`

// GetSyncJobById gets a job by ID
func (q *Queries) GetSyncJobById(ctx context.Context, id string) (SyncJob, error) {
	row := q.db.QueryRow(ctx, getSyncJobById, id)
	return scanSyncJob(row)
}

const listSyncJobsBySource = `
SELECT ` + syncJobColumns + ` FROM sync_jobs
WHERE source_config_id = $1
ORDER BY started_at DESC
LIMIT $2`

// ListSyncJobsBySourceParams holds the parameters for ListSyncJobsBySource
type ListSyncJobsBySourceParams struct {
	SourceConfigID string
	Limit          int32
}

// ListSyncJobsBySource lists the most recent jobs for one source
func (q *Queries) ListSyncJobsBySource(ctx context.Context, arg ListSyncJobsBySourceParams) ([]SyncJob, error) {
	rows, err := q.db.Query(ctx, listSyncJobsBySource, arg.SourceConfigID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SyncJob
	for rows.Next() {
		j, err := scanSyncJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, j)
	}
	return items, rows.Err()
}

const listRecentSyncJobs = `
SELECT ` + syncJobColumns + ` FROM sync_jobs
ORDER BY started_at DESC
LIMIT $1`

// ListRecentSyncJobs lists the most recent jobs across all sources
func (q *Queries) ListRecentSyncJobs(ctx context.Context, limit int32) ([]SyncJob, error) {
	rows, err := q.db.Query(ctx, listRecentSyncJobs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SyncJob
	for rows.Next() {
		j, err := scanSyncJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, j)
	}
	return items, rows.Err()
}
