package services

import (
	"context"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
)

// SyncJobRepository is a PostgreSQL implementation of aplsync.SyncJobRepository
type SyncJobRepository struct {
	db *repository.Queries
}

// NewSyncJobRepository creates a new PostgreSQL SyncJobRepository
func NewSyncJobRepository(db *repository.Queries) aplsync.SyncJobRepository {
	return &SyncJobRepository{
		db: db,
	}
}

// Create inserts a new job row before any I/O happens
func (r *SyncJobRepository) Create(ctx context.Context, arg repository.CreateSyncJobParams) (repository.SyncJob, error) {
	return r.db.CreateSyncJob(ctx, arg)
}

// MarkRunning transitions a job to running after a successful fetch
func (r *SyncJobRepository) MarkRunning(ctx context.Context, arg repository.MarkSyncJobRunningParams) (repository.SyncJob, error) {
	return r.db.MarkSyncJobRunning(ctx, arg)
}

// Complete finalizes a successful job with its metrics
func (r *SyncJobRepository) Complete(ctx context.Context, arg repository.CompleteSyncJobParams) (repository.SyncJob, error) {
	return r.db.CompleteSyncJob(ctx, arg)
}

// Fail finalizes a failed job with the captured error
func (r *SyncJobRepository) Fail(ctx context.Context, arg repository.FailSyncJobParams) (repository.SyncJob, error) {
	return r.db.FailSyncJob(ctx, arg)
}

// GetByID gets a job by ID
func (r *SyncJobRepository) GetByID(ctx context.Context, id string) (repository.SyncJob, error) {
	return r.db.GetSyncJobById(ctx, id)
}
