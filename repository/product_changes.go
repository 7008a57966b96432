package repository

import (
	"context"
	"encoding/json"
	"time"
)

const productChangeColumns = `id, sync_job_id, code, change_type, field_changes, created_at`

func scanProductChange(row interface{ Scan(...interface{}) error }) (ProductChange, error) {
	var c ProductChange
	err := row.Scan(
		&c.ID,
		&c.SyncJobID,
		&c.Code,
		&c.ChangeType,
		&c.FieldChanges,
		&c.CreatedAt,
	)
	return c, err
}

const createProductChange = `
INSERT INTO product_changes (` + productChangeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)`

// CreateProductChangeParams holds the parameters for CreateProductChange
type CreateProductChangeParams struct {
	ID           string
	SyncJobID    string
	Code         string
	ChangeType   string
	FieldChanges json.RawMessage
	CreatedAt    time.Time
}

// CreateProductChange appends one audit change row
func (q *Queries) CreateProductChange(ctx context.Context, arg CreateProductChangeParams) error {
	_, err := q.db.Exec(ctx, createProductChange,
		arg.ID,
		arg.SyncJobID,
		arg.Code,
		arg.ChangeType,
		arg.FieldChanges,
		arg.CreatedAt,
	)
	return err
}

const listProductChangesByJob = `
SELECT ` + productChangeColumns + ` FROM product_changes
WHERE sync_job_id = $1
ORDER BY created_at
LIMIT $2 OFFSET $3`

// ListProductChangesByJobParams holds the parameters for ListProductChangesByJob
type ListProductChangesByJobParams struct {
	SyncJobID string
	Limit     int32
	Offset    int32
}

// ListProductChangesByJob lists the classified records recorded for one job
func (q *Queries) ListProductChangesByJob(ctx context.Context, arg ListProductChangesByJobParams) ([]ProductChange, error) {
	rows, err := q.db.Query(ctx, listProductChangesByJob, arg.SyncJobID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ProductChange
	for rows.Next() {
		c, err := scanProductChange(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
