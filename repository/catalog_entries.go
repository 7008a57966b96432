package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const catalogEntryColumns = `id, code, jurisdiction, name, brand, size, category, subcategory, restriction_notes, active, created_at, updated_at`

func scanCatalogEntry(row interface{ Scan(...interface{}) error }) (CatalogEntry, error) {
	var e CatalogEntry
	err := row.Scan(
		&e.ID,
		&e.Code,
		&e.Jurisdiction,
		&e.Name,
		&e.Brand,
		&e.Size,
		&e.Category,
		&e.Subcategory,
		&e.RestrictionNotes,
		&e.Active,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

const createCatalogEntry = `
INSERT INTO catalog_entries (` + catalogEntryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + catalogEntryColumns

// CreateCatalogEntryParams holds the parameters for CreateCatalogEntry
type CreateCatalogEntryParams struct {
	ID               string
	Code             string
	Jurisdiction     string
	Name             string
	Brand            pgtype.Text
	Size             pgtype.Text
	Category         pgtype.Text
	Subcategory      pgtype.Text
	RestrictionNotes pgtype.Text
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreateCatalogEntry inserts a new catalog entry
func (q *Queries) CreateCatalogEntry(ctx context.Context, arg CreateCatalogEntryParams) (CatalogEntry, error) {
	row := q.db.QueryRow(ctx, createCatalogEntry,
		arg.ID,
		arg.Code,
		arg.Jurisdiction,
		arg.Name,
		arg.Brand,
		arg.Size,
		arg.Category,
		arg.Subcategory,
		arg.RestrictionNotes,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanCatalogEntry(row)
}

const updateCatalogEntryFields = `
UPDATE catalog_entries
SET name = $2, brand = $3, size = $4, category = $5, subcategory = $6, active = $7, updated_at = $8
WHERE id = $1
RETURNING ` + catalogEntryColumns

// UpdateCatalogEntryFieldsParams holds the parameters for UpdateCatalogEntryFields
type UpdateCatalogEntryFieldsParams struct {
	ID          string
	Name        string
	Brand       pgtype.Text
	Size        pgtype.Text
	Category    pgtype.Text
	Subcategory pgtype.Text
	Active      bool
	UpdatedAt   time.Time
}

// UpdateCatalogEntryFields overwrites the mapped fields of one entry in a single statement
func (q *Queries) UpdateCatalogEntryFields(ctx context.Context, arg UpdateCatalogEntryFieldsParams) (CatalogEntry, error) {
	row := q.db.QueryRow(ctx, updateCatalogEntryFields,
		arg.ID,
		arg.Name,
		arg.Brand,
		arg.Size,
		arg.Category,
		arg.Subcategory,
		arg.Active,
		arg.UpdatedAt,
	)
	return scanCatalogEntry(row)
}

const deactivateCatalogEntry = `
UPDATE catalog_entries SET active = false, updated_at = $2 WHERE id = $1`

// DeactivateCatalogEntryParams holds the parameters for DeactivateCatalogEntry
type DeactivateCatalogEntryParams struct {
	ID        string
	UpdatedAt time.Time
}

// DeactivateCatalogEntry soft-deletes one entry
func (q *Queries) DeactivateCatalogEntry(ctx context.Context, arg DeactivateCatalogEntryParams) error {
	_, err := q.db.Exec(ctx, deactivateCatalogEntry, arg.ID, arg.UpdatedAt)
	return err
}

const getActiveCatalogEntryByCode = `
SELECT ` + catalogEntryColumns + ` FROM catalog_entries
WHERE code = $1 AND jurisdiction = $2 AND active = true`

// GetActiveCatalogEntryByCodeParams holds the parameters for GetActiveCatalogEntryByCode
type GetActiveCatalogEntryByCodeParams struct {
	Code         string
	Jurisdiction string
}

// GetActiveCatalogEntryByCode looks up the active entry for a code within a jurisdiction
func (q *Queries) GetActiveCatalogEntryByCode(ctx context.Context, arg GetActiveCatalogEntryByCodeParams) (CatalogEntry, error) {
	row := q.db.QueryRow(ctx, getActiveCatalogEntryByCode, arg.Code, arg.Jurisdiction)
	return scanCatalogEntry(row)
}

const getCatalogSnapshot = `
SELECT ` + catalogEntryColumns + ` FROM catalog_entries WHERE jurisdiction = $1`

// GetCatalogSnapshot returns every entry for a jurisdiction, active and inactive
func (q *Queries) GetCatalogSnapshot(ctx context.Context, jurisdiction string) ([]CatalogEntry, error) {
	rows, err := q.db.Query(ctx, getCatalogSnapshot, jurisdiction)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CatalogEntry
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const listActiveCatalogEntries = `
SELECT ` + catalogEntryColumns + ` FROM catalog_entries
WHERE jurisdiction = $1 AND active = true AND ($2::text = '' OR category = $2)
ORDER BY name
LIMIT $3 OFFSET $4`

// ListActiveCatalogEntriesParams holds the parameters for ListActiveCatalogEntries
type ListActiveCatalogEntriesParams struct {
	Jurisdiction string
	Category     string
	Limit        int32
	Offset       int32
}

// ListActiveCatalogEntries lists active entries for a jurisdiction with an optional category filter
func (q *Queries) ListActiveCatalogEntries(ctx context.Context, arg ListActiveCatalogEntriesParams) ([]CatalogEntry, error) {
	rows, err := q.db.Query(ctx, listActiveCatalogEntries, arg.Jurisdiction, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CatalogEntry
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const countActiveCatalogEntries = `
SELECT count(*) FROM catalog_entries
WHERE jurisdiction = $1 AND active = true AND ($2::text = '' OR category = $2)`

// CountActiveCatalogEntriesParams holds the parameters for CountActiveCatalogEntries
type CountActiveCatalogEntriesParams struct {
	Jurisdiction string
	Category     string
}

// CountActiveCatalogEntries counts active entries for a jurisdiction
func (q *Queries) CountActiveCatalogEntries(ctx context.Context, arg CountActiveCatalogEntriesParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countActiveCatalogEntries, arg.Jurisdiction, arg.Category).Scan(&count)
	return count, err
}
