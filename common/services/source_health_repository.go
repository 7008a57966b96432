package services

import (
	"context"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
)

// SourceHealthRepository is a PostgreSQL implementation of aplsync.SourceHealthRepository
type SourceHealthRepository struct {
	db *repository.Queries
}

// NewSourceHealthRepository creates a new PostgreSQL SourceHealthRepository
func NewSourceHealthRepository(db *repository.Queries) aplsync.SourceHealthRepository {
	return &SourceHealthRepository{
		db: db,
	}
}

// Get gets the health row for one source
func (r *SourceHealthRepository) Get(ctx context.Context, sourceConfigID string) (repository.SourceHealth, error) {
	return r.db.GetSourceHealth(ctx, sourceConfigID)
}

// Upsert writes the full health row for one source
func (r *SourceHealthRepository) Upsert(ctx context.Context, arg repository.UpsertSourceHealthParams) (repository.SourceHealth, error) {
	return r.db.UpsertSourceHealth(ctx, arg)
}

// GetAll lists every health row
func (r *SourceHealthRepository) GetAll(ctx context.Context) ([]repository.SourceHealth, error) {
	return r.db.GetAllSourceHealth(ctx)
}
