package services

import (
	"context"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
)

// CatalogRepository is a PostgreSQL implementation of aplsync.CatalogRepository
type CatalogRepository struct {
	db *repository.Queries
}

// NewCatalogRepository creates a new PostgreSQL CatalogRepository
func NewCatalogRepository(db *repository.Queries) aplsync.CatalogRepository {
	return &CatalogRepository{
		db: db,
	}
}

// Snapshot returns every entry for a jurisdiction, active and inactive
func (r *CatalogRepository) Snapshot(ctx context.Context, jurisdiction string) ([]repository.CatalogEntry, error) {
	return r.db.GetCatalogSnapshot(ctx, jurisdiction)
}

// Create inserts a new catalog entry
func (r *CatalogRepository) Create(ctx context.Context, arg repository.CreateCatalogEntryParams) (repository.CatalogEntry, error) {
	return r.db.CreateCatalogEntry(ctx, arg)
}

// UpdateFields overwrites the mapped fields of one entry
func (r *CatalogRepository) UpdateFields(ctx context.Context, arg repository.UpdateCatalogEntryFieldsParams) (repository.CatalogEntry, error) {
	return r.db.UpdateCatalogEntryFields(ctx, arg)
}

// Deactivate soft-deletes one entry
func (r *CatalogRepository) Deactivate(ctx context.Context, arg repository.DeactivateCatalogEntryParams) error {
	return r.db.DeactivateCatalogEntry(ctx, arg)
}

// CountActive counts the active entries for a jurisdiction
func (r *CatalogRepository) CountActive(ctx context.Context, jurisdiction string) (int64, error) {
	return r.db.CountActiveCatalogEntries(ctx, repository.CountActiveCatalogEntriesParams{
		Jurisdiction: jurisdiction,
	})
}
