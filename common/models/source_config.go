package models

import (
	"time"
)

// ColumnMapping maps each logical record field to the source column headers
// that may carry it, tried in declared order. The mapping is configuration
// data, not code: operators adjust it when a publisher renames a column.
type ColumnMapping map[string][]string

// SourceConfig is the API representation of one sync source.
type SourceConfig struct {
	ID                 string        `json:"id"`
	Jurisdiction       string        `json:"jurisdiction"`
	DataSource         string        `json:"data_source"`
	FetchURL           string        `json:"fetch_url"`
	Format             string        `json:"format"`
	ColumnMapping      ColumnMapping `json:"column_mapping"`
	Schedule           string        `json:"schedule,omitempty"`
	Enabled            bool          `json:"enabled"`
	MinExpectedRecords int           `json:"min_expected_records"`
	MaxChangeRate      float64       `json:"max_change_rate"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
