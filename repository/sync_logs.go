package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const syncEventLogColumns = `id, source_config_id, sync_job_id, level, message, details, created_at`

const createSyncEventLog = `
INSERT INTO sync_event_logs (` + syncEventLogColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// CreateSyncEventLogParams holds the parameters for CreateSyncEventLog
type CreateSyncEventLogParams struct {
	ID             string
	SourceConfigID pgtype.Text
	SyncJobID      pgtype.Text
	Level          string
	Message        string
	Details        json.RawMessage
	CreatedAt      time.Time
}

// CreateSyncEventLog appends one persisted log event
func (q *Queries) CreateSyncEventLog(ctx context.Context, arg CreateSyncEventLogParams) error {
	_, err := q.db.Exec(ctx, createSyncEventLog,
		arg.ID,
		arg.SourceConfigID,
		arg.SyncJobID,
		arg.Level,
		arg.Message,
		arg.Details,
		arg.CreatedAt,
	)
	return err
}

const listRecentSyncEventLogs = `
SELECT ` + syncEventLogColumns + ` FROM sync_event_logs
ORDER BY created_at DESC
LIMIT $1`

// ListRecentSyncEventLogs lists the most recent persisted log events
func (q *Queries) ListRecentSyncEventLogs(ctx context.Context, limit int32) ([]SyncEventLog, error) {
	rows, err := q.db.Query(ctx, listRecentSyncEventLogs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SyncEventLog
	for rows.Next() {
		var e SyncEventLog
		if err := rows.Scan(
			&e.ID,
			&e.SourceConfigID,
			&e.SyncJobID,
			&e.Level,
			&e.Message,
			&e.Details,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
