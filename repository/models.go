package repository

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// SourceConfig is one operator-managed sync source for a (jurisdiction, data source) pair.
type SourceConfig struct {
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

// CatalogEntry is one approved product within one jurisdiction.
type CatalogEntry struct {
	ID               string
	Code             string
	Jurisdiction     string
	Name             string
	Brand            pgtype.Text
	Size             pgtype.Text
	Category         pgtype.Text
	Subcategory      pgtype.Text
	RestrictionNotes pgtype.Text
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SyncJob is one sync execution attempt. Rows are append-only once terminal.
type SyncJob struct {
	ID                 string
	SourceConfigID     string
	Status             string
	TriggerType        string
	ContentFingerprint pgtype.Text
	ArchivePath        pgtype.Text
	RowsProcessed      int32
	RecordsAdded       int32
	RecordsUpdated     int32
	RecordsRemoved     int32
	RecordsUnchanged   int32
	RecordsReactivated int32
	ValidationErrors   int32
	Warning            pgtype.Text
	ErrorMessage       pgtype.Text
	ErrorDetail        pgtype.Text
	StartedAt          time.Time
	CompletedAt        pgtype.Timestamptz
	DurationMs         pgtype.Int8
	CreatedAt          time.Time
}

// ProductChange is one classified record within a job, kept for audit only.
type ProductChange struct {
	ID           string
	SyncJobID    string
	Code         string
	ChangeType   string
	FieldChanges json.RawMessage
	CreatedAt    time.Time
}

// SourceHealth is the rolling health row for one source config.
type SourceHealth struct {
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

// SyncEventLog is one persisted log event from the sync pipeline.
type SyncEventLog struct {
	ID             string
	SourceConfigID pgtype.Text
	SyncJobID      pgtype.Text
	Level          string
	Message        string
	Details        json.RawMessage
	CreatedAt      time.Time
}
