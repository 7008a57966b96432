package messaging

// SyncRequest is the payload of an externally triggered sync notification.
type SyncRequest struct {
	Jurisdiction string `json:"jurisdiction"`
	DataSource   string `json:"data_source"`
	Force        bool   `json:"force,omitempty"`
}

// SyncCompleted is published on every terminal job state for downstream
// consumers such as the alerting pipeline.
type SyncCompleted struct {
	JobID          string `json:"job_id"`
	SourceConfigID string `json:"source_config_id"`
	Jurisdiction   string `json:"jurisdiction"`
	DataSource     string `json:"data_source"`
	Status         string `json:"status"`
	RecordsAdded   int    `json:"records_added"`
	RecordsUpdated int    `json:"records_updated"`
	RecordsRemoved int    `json:"records_removed"`
	Warning        string `json:"warning,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}
