package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const sourceConfigColumns = `id, jurisdiction, data_source, fetch_url, format, column_mapping, schedule, enabled, min_expected_records, max_change_rate, created_at, updated_at`

func scanSourceConfig(row interface{ Scan(...interface{}) error }) (SourceConfig, error) {
	var sc SourceConfig
	err := row.Scan(
		&sc.ID,
		&sc.Jurisdiction,
		&sc.DataSource,
		&sc.FetchURL,
		&sc.Format,
		&sc.ColumnMapping,
		&sc.Schedule,
		&sc.Enabled,
		&sc.MinExpectedRecords,
		&sc.MaxChangeRate,
		&sc.CreatedAt,
		&sc.UpdatedAt,
	)
	return sc, err
}

const createSourceConfig = `
INSERT INTO source_configs (` + sourceConfigColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + sourceConfigColumns

// CreateSourceConfigParams holds the parameters for CreateSourceConfig
type CreateSourceConfigParams struct {
	ID                 string
	Jurisdiction       string
	DataSource         string
	FetchURL           string
	Format             string
	ColumnMapping      json.RawMessage
	Schedule           pgtype.Text
	Enabled            bool
	MinExpectedRecords int32
	MaxChangeRate      float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CreateSourceConfig inserts a new source config
func (q *Queries) CreateSourceConfig(ctx context.Context, arg CreateSourceConfigParams) (SourceConfig, error) {
	row := q.db.QueryRow(ctx, createSourceConfig,
		arg.ID,
		arg.Jurisdiction,
		arg.DataSource,
		arg.FetchURL,
		arg.Format,
		arg.ColumnMapping,
		arg.Schedule,
		arg.Enabled,
		arg.MinExpectedRecords,
		arg.MaxChangeRate,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSourceConfig(row)
}

const updateSourceConfig = `
UPDATE source_configs
SET fetch_url = $2, format = $3, column_mapping = $4, schedule = $5, enabled = $6, min_expected_records = $7, max_change_rate = $8, updated_at = $9
WHERE id = $1
RETURNING ` + sourceConfigColumns

// UpdateSourceConfigParams holds the parameters for UpdateSourceConfig
type UpdateSourceConfigParams struct {
	ID                 string
	FetchURL           string
	Format             string
	ColumnMapping      json.RawMessage
	Schedule           pgtype.Text
	Enabled            bool
	MinExpectedRecords int32
	MaxChangeRate      float64
	UpdatedAt          time.Time
}

// UpdateSourceConfig updates the mutable fields of a source config
func (q *Queries) UpdateSourceConfig(ctx context.Context, arg UpdateSourceConfigParams) (SourceConfig, error) {
	row := q.db.QueryRow(ctx, updateSourceConfig,
		arg.ID,
		arg.FetchURL,
		arg.Format,
		arg.ColumnMapping,
		arg.Schedule,
		arg.Enabled,
		arg.MinExpectedRecords,
		arg.MaxChangeRate,
		arg.UpdatedAt,
	)
	return scanSourceConfig(row)
}

const deleteSourceConfig = `DELETE FROM source_configs WHERE id = $1`

// DeleteSourceConfig removes a source config
func (q *Queries) DeleteSourceConfig(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteSourceConfig, id)
	return err
}

const getSourceConfigById = `SELECT ` + sourceConfigColumns + ` FROM source_configs WHERE id = $1`

// GetSourceConfigById gets a source config by ID
func (q *Queries) GetSourceConfigById(ctx context.Context, id string) (SourceConfig, error) {
	row := q.db.QueryRow(ctx, getSourceConfigById, id)
	return scanSourceConfig(row)
}

const getSourceConfigByKey = `SELECT ` + sourceConfigColumns + ` FROM source_configs WHERE jurisdiction = $1 AND data_source = $2`

// GetSourceConfigByKeyParams holds the parameters for GetSourceConfigByKey
type GetSourceConfigByKeyParams struct {
	Jurisdiction string
	DataSource   string
}

// GetSourceConfigByKey gets a source config by its (jurisdiction, data source) identity
func (q *Queries) GetSourceConfigByKey(ctx context.Context, arg GetSourceConfigByKeyParams) (SourceConfig, error) {
	row := q.db.QueryRow(ctx, getSourceConfigByKey, arg.Jurisdiction, arg.DataSource)
	return scanSourceConfig(row)
}

const getAllSourceConfigs = `SELECT ` + sourceConfigColumns + ` FROM source_configs ORDER BY jurisdiction, data_source`

// GetAllSourceConfigs lists every source config
func (q *Queries) GetAllSourceConfigs(ctx context.Context) ([]SourceConfig, error) {
	rows, err := q.db.Query(ctx, getAllSourceConfigs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SourceConfig
	for rows.Next() {
		sc, err := scanSourceConfig(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

const getEnabledSourceConfigs = `SELECT ` + sourceConfigColumns + ` FROM source_configs WHERE enabled = true ORDER BY jurisdiction, data_source`

// GetEnabledSourceConfigs lists enabled source configs
func (q *Queries) GetEnabledSourceConfigs(ctx context.Context) ([]SourceConfig, error) {
	rows, err := q.db.Query(ctx, getEnabledSourceConfigs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SourceConfig
	for rows.Next() {
		sc, err := scanSourceConfig(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}
