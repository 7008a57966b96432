package models

import (
	"time"
)

// SyncJob is the API representation of one sync execution attempt.
type SyncJob struct {
	ID                 string     `json:"id"`
	SourceConfigID     string     `json:"source_config_id"`
	Status             string     `json:"status"`
	TriggerType        string     `json:"trigger_type"`
	ContentFingerprint string     `json:"content_fingerprint,omitempty"`
	ArchivePath        string     `json:"archive_path,omitempty"`
	RowsProcessed      int        `json:"rows_processed"`
	RecordsAdded       int        `json:"records_added"`
	RecordsUpdated     int        `json:"records_updated"`
	RecordsRemoved     int        `json:"records_removed"`
	RecordsUnchanged   int        `json:"records_unchanged"`
	RecordsReactivated int        `json:"records_reactivated"`
	ValidationErrors   int        `json:"validation_errors"`
	Warning            string     `json:"warning,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	DurationMs         int64      `json:"duration_ms"`
}

// ProductChange is the API representation of one audited record classification.
type ProductChange struct {
	ID           string                 `json:"id"`
	SyncJobID    string                 `json:"sync_job_id"`
	Code         string                 `json:"code"`
	ChangeType   string                 `json:"change_type"`
	FieldChanges map[string]FieldChange `json:"field_changes,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// FieldChange is one before/after pair on an updated record.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}
