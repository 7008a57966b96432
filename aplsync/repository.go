package aplsync

import (
	"context"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
)

// SourceConfigRepository defines the interface for source config database operations
type SourceConfigRepository interface {
	// GetByID gets a source config by ID
	GetByID(ctx context.Context, id string) (repository.SourceConfig, error)

	// GetByKey gets a source config by its (jurisdiction, data source) identity
	GetByKey(ctx context.Context, jurisdiction, dataSource string) (repository.SourceConfig, error)

	// GetEnabled gets all enabled source configs
	GetEnabled(ctx context.Context) ([]repository.SourceConfig, error)

	// GetAll gets all source configs
	GetAll(ctx context.Context) ([]repository.SourceConfig, error)

	// Create creates a new source config
	Create(ctx context.Context, arg repository.CreateSourceConfigParams) (repository.SourceConfig, error)

	// Update updates a source config
	Update(ctx context.Context, arg repository.UpdateSourceConfigParams) (repository.SourceConfig, error)

	// Delete deletes a source config
	Delete(ctx context.Context, id string) error
}

// CatalogRepository defines the interface for catalog database operations
type CatalogRepository interface {
	// Snapshot returns every entry for a jurisdiction, active and inactive
	Snapshot(ctx context.Context, jurisdiction string) ([]repository.CatalogEntry, error)

	// Create inserts a new catalog entry
	Create(ctx context.Context, arg repository.CreateCatalogEntryParams) (repository.CatalogEntry, error)

	// UpdateFields overwrites the mapped fields of one entry
	UpdateFields(ctx context.Context, arg repository.UpdateCatalogEntryFieldsParams) (repository.CatalogEntry, error)

	// Deactivate soft-deletes one entry
	Deactivate(ctx context.Context, arg repository.DeactivateCatalogEntryParams) error

	// CountActive counts the active entries for a jurisdiction
	CountActive(ctx context.Context, jurisdiction string) (int64, error)
}

// ChangeRepository defines the interface for audit change records
type ChangeRepository interface {
	// Record appends one classified record for a job
	Record(ctx context.Context, arg repository.CreateProductChangeParams) error
}

// SyncJobRepository defines the interface for sync job database operations
type SyncJobRepository interface {
	// Create inserts a new job row before any I/O happens
	Create(ctx context.Context, arg repository.CreateSyncJobParams) (repository.SyncJob, error)

	// MarkRunning transitions a job to running after a successful fetch
	MarkRunning(ctx context.Context, arg repository.MarkSyncJobRunningParams) (repository.SyncJob, error)

	// Complete finalizes a successful job with its metrics
	Complete(ctx context.Context, arg repository.CompleteSyncJobParams) (repository.SyncJob, error)

	// Fail finalizes a failed job with the captured error
	Fail(ctx context.Context, arg repository.FailSyncJobParams) (repository.SyncJob, error)

	// GetByID gets a job by ID
	GetByID(ctx context.Context, id string) (repository.SyncJob, error)
}

// SourceHealthRepository defines the interface for source health database operations
type SourceHealthRepository interface {
	// Get gets the health row for one source
	Get(ctx context.Context, sourceConfigID string) (repository.SourceHealth, error)

	// Upsert writes the full health row for one source
	Upsert(ctx context.Context, arg repository.UpsertSourceHealthParams) (repository.SourceHealth, error)

	// GetAll lists every health row
	GetAll(ctx context.Context) ([]repository.SourceHealth, error)
}
