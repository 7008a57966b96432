package services

import (
	"context"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
)

// SourceConfigRepository is a PostgreSQL implementation of aplsync.SourceConfigRepository
type SourceConfigRepository struct {
	db *repository.Queries
}

// NewSourceConfigRepository creates a new PostgreSQL SourceConfigRepository
func NewSourceConfigRepository(db *repository.Queries) aplsync.SourceConfigRepository {
	return &SourceConfigRepository{
		db: db,
	}
}

// GetByID gets a source config by ID
func (r *SourceConfigRepository) GetByID(ctx context.Context, id string) (repository.SourceConfig, error) {
	return r.db.GetSourceConfigById(ctx, id)
}

// GetByKey gets a source config by its (jurisdiction, data source) identity
func (r *SourceConfigRepository) GetByKey(ctx context.Context, jurisdiction, dataSource string) (repository.SourceConfig, error) {
	return r.db.GetSourceConfigByKey(ctx, repository.GetSourceConfigByKeyParams{
		Jurisdiction: jurisdiction,
		DataSource:   dataSource,
	})
}

// GetEnabled gets all enabled source configs
func (r *SourceConfigRepository) GetEnabled(ctx context.Context) ([]repository.SourceConfig, error) {
	return r.db.GetEnabledSourceConfigs(ctx)
}

// GetAll gets all source configs
func (r *SourceConfigRepository) GetAll(ctx context.Context) ([]repository.SourceConfig, error) {
	return r.db.GetAllSourceConfigs(ctx)
}

// Create creates a new source config
func (r *SourceConfigRepository) Create(ctx context.Context, arg repository.CreateSourceConfigParams) (repository.SourceConfig, error) {
	return r.db.CreateSourceConfig(ctx, arg)
}

// Update updates a source config
func (r *SourceConfigRepository) Update(ctx context.Context, arg repository.UpdateSourceConfigParams) (repository.SourceConfig, error) {
	return r.db.UpdateSourceConfig(ctx, arg)
}

// Delete deletes a source config
func (r *SourceConfigRepository) Delete(ctx context.Context, id string) error {
	return r.db.DeleteSourceConfig(ctx, id)
}
