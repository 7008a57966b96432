package models

import (
	"time"
)

// SourceHealth is the API representation of rolling health for one source.
type SourceHealth struct {
	SourceConfigID      string     `json:"source_config_id"`
	LastJobID           string     `json:"last_job_id,omitempty"`
	LastAttemptAt       *time.Time `json:"last_attempt_at,omitempty"`
	LastSuccessAt       *time.Time `json:"last_success_at,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	TotalRuns           int        `json:"total_runs"`
	TotalFailures       int        `json:"total_failures"`
	CurrentRecordCount  int        `json:"current_record_count"`
	BaselineRecordCount int        `json:"baseline_record_count"`
	Healthy             bool       `json:"healthy"`
	Message             string     `json:"message,omitempty"`
}

// SourceDashboardRow joins a source config with its health for the operations view.
type SourceDashboardRow struct {
	Source           SourceConfig `json:"source"`
	Health           SourceHealth `json:"health"`
	HoursSinceSync   float64      `json:"hours_since_success"`
	FailureRate      float64      `json:"failure_rate"`
	CountDriftMargin float64      `json:"count_drift"`
}
