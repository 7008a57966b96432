package constants

// JobStatus represents the lifecycle state of a sync job.
type JobStatus string

const (
	// JobStatusPending indicates the job row exists but no I/O has started
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the fetch succeeded and the job is processing
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job finished and metrics are final
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job aborted and the catalog was left untouched
	JobStatusFailed JobStatus = "failed"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// TriggerType identifies what started a sync job.
type TriggerType string

const (
	// TriggerScheduler marks jobs started by the schedule monitor
	TriggerScheduler TriggerType = "scheduler"
	// TriggerManual marks jobs started by an operator
	TriggerManual TriggerType = "manual"
	// TriggerWebhook marks jobs started by an external notification
	TriggerWebhook TriggerType = "webhook"
)

// ChangeType classifies one catalog record within a job.
type ChangeType string

const (
	// ChangeAdded marks a code never seen before in the jurisdiction
	ChangeAdded ChangeType = "added"
	// ChangeUpdated marks an existing entry with at least one differing field
	ChangeUpdated ChangeType = "updated"
	// ChangeRemoved marks an entry absent from the import, soft-deleted
	ChangeRemoved ChangeType = "removed"
	// ChangeReactivated marks a soft-deleted code that reappeared
	ChangeReactivated ChangeType = "reactivated"
)

// DataFormat is the declared format of a source file.
type DataFormat string

const (
	// FormatSpreadsheet is a tabular xlsx workbook
	FormatSpreadsheet DataFormat = "spreadsheet"
	// FormatDelimited is delimited text (CSV, TSV, pipe)
	FormatDelimited DataFormat = "delimited"
	// FormatHTML is a structured HTML page. Declared but not implemented.
	FormatHTML DataFormat = "html"
	// FormatDocument is free-form document text. Declared but not implemented.
	FormatDocument DataFormat = "document"
)
