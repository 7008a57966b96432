package services

import (
	"context"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
)

// ChangeRepository is a PostgreSQL implementation of aplsync.ChangeRepository
type ChangeRepository struct {
	db *repository.Queries
}

// NewChangeRepository creates a new PostgreSQL ChangeRepository
func NewChangeRepository(db *repository.Queries) aplsync.ChangeRepository {
	return &ChangeRepository{
		db: db,
	}
}

// Record appends one classified record for a job
func (r *ChangeRepository) Record(ctx context.Context, arg repository.CreateProductChangeParams) error {
	return r.db.CreateProductChange(ctx, arg)
}
