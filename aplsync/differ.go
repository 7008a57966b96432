package aplsync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/constants"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
)

// DiffResult carries the per-outcome counts of one reconciliation.
type DiffResult struct {
	RowsProcessed    int
	Added            int
	Updated          int
	Removed          int
	Unchanged        int
	Reactivated      int
	ValidationErrors int
}

// Changed reports how many records the diff touched.
func (r DiffResult) Changed() int {
	return r.Added + r.Updated + r.Removed + r.Reactivated
}

// Differ reconciles a parsed record set against the current catalog snapshot
// for one jurisdiction and persists the outcome.
type Differ struct {
	catalog CatalogRepository
	changes ChangeRepository
}

// NewDiffer creates a differ backed by the given repositories
func NewDiffer(catalog CatalogRepository, changes ChangeRepository) *Differ {
	return &Differ{
		catalog: catalog,
		changes: changes,
	}
}

// Reconcile classifies every parsed record against the snapshot and applies
// the result. The final catalog state depends only on set membership and
// field equality, never on input ordering: when one file carries a code
// twice, the later occurrence silently wins.
//
// Per-record persistence failures are counted and skipped so one bad row
// cannot block a whole catalog refresh. Only a snapshot read failure aborts.
func (d *Differ) Reconcile(ctx context.Context, jobID, jurisdiction string, records []ProductRecord) (DiffResult, error) {
	result := DiffResult{RowsProcessed: len(records)}

	entries, err := d.catalog.Snapshot(ctx, jurisdiction)
	if err != nil {
		return result, err
	}

	snapshot := make(map[string]repository.CatalogEntry, len(entries))
	for _, e := range entries {
		snapshot[e.Code] = e
	}

	// Last-write-wins within one file: collapse duplicates in parse order
	// before classification.
	deduped := make(map[string]ProductRecord, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		if _, seen := deduped[rec.Code]; !seen {
			order = append(order, rec.Code)
		}
		deduped[rec.Code] = rec
	}

	now := time.Now()
	seen := make(map[string]struct{}, len(deduped))

	for _, code := range order {
		rec := deduped[code]
		seen[code] = struct{}{}

		entry, exists := snapshot[code]
		if !exists {
			if err := d.applyAdd(ctx, jobID, jurisdiction, rec, now); err != nil {
				log.Warn().Err(err).Str("code", code).Str("jurisdiction", jurisdiction).Msg("Failed to add catalog entry")
				result.ValidationErrors++
				continue
			}
			result.Added++
			continue
		}

		diffs := fieldDiffs(entry, rec)

		if entry.Active && len(diffs) == 0 {
			// No write and no change record: unchanged rows must not
			// produce spurious updates.
			result.Unchanged++
			continue
		}

		changeType := constants.ChangeUpdated
		if !entry.Active {
			changeType = constants.ChangeReactivated
		}

		if err := d.applyUpdate(ctx, jobID, entry, rec, diffs, changeType, now); err != nil {
			log.Warn().Err(err).Str("code", code).Str("jurisdiction", jurisdiction).Msg("Failed to update catalog entry")
			result.ValidationErrors++
			continue
		}

		if changeType == constants.ChangeReactivated {
			result.Reactivated++
		} else {
			result.Updated++
		}
	}

	// Entries absent from the import are soft-deleted; history and
	// cross-references depend on the rows staying put.
	for _, entry := range entries {
		if _, present := seen[entry.Code]; present || !entry.Active {
			continue
		}

		if err := d.applyRemove(ctx, jobID, entry, now); err != nil {
			log.Warn().Err(err).Str("code", entry.Code).Str("jurisdiction", jurisdiction).Msg("Failed to deactivate catalog entry")
			result.ValidationErrors++
			continue
		}
		result.Removed++
	}

	return result, nil
}

func (d *Differ) applyAdd(ctx context.Context, jobID, jurisdiction string, rec ProductRecord, now time.Time) error {
	_, err := d.catalog.Create(ctx, repository.CreateCatalogEntryParams{
		ID:           uuid.NewString(),
		Code:         rec.Code,
		Jurisdiction: jurisdiction,
		Name:         rec.Name,
		Brand:        textOf(rec.Brand),
		Size:         textOf(rec.Size),
		Category:     textOf(rec.Category),
		Subcategory:  textOf(rec.Subcategory),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	return d.recordChange(ctx, jobID, rec.Code, constants.ChangeAdded, nil, now)
}

func (d *Differ) applyUpdate(ctx context.Context, jobID string, entry repository.CatalogEntry, rec ProductRecord, diffs map[string]models.FieldChange, changeType constants.ChangeType, now time.Time) error {
	_, err := d.catalog.UpdateFields(ctx, repository.UpdateCatalogEntryFieldsParams{
		ID:          entry.ID,
		Name:        rec.Name,
		Brand:       textOf(rec.Brand),
		Size:        textOf(rec.Size),
		Category:    textOf(rec.Category),
		Subcategory: textOf(rec.Subcategory),
		Active:      true,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}

	return d.recordChange(ctx, jobID, entry.Code, changeType, diffs, now)
}

func (d *Differ) applyRemove(ctx context.Context, jobID string, entry repository.CatalogEntry, now time.Time) error {
	if err := d.catalog.Deactivate(ctx, repository.DeactivateCatalogEntryParams{
		ID:        entry.ID,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	return d.recordChange(ctx, jobID, entry.Code, constants.ChangeRemoved, nil, now)
}

// recordChange appends one audit row. Audit rows are never read back by the
// differ; a failure here is logged but does not undo the applied change.
func (d *Differ) recordChange(ctx context.Context, jobID, code string, changeType constants.ChangeType, diffs map[string]models.FieldChange, now time.Time) error {
	var fieldChanges json.RawMessage
	if len(diffs) > 0 {
		raw, err := json.Marshal(diffs)
		if err != nil {
			log.Error().Err(err).Str("code", code).Msg("Failed to marshal field changes")
		} else {
			fieldChanges = raw
		}
	}

	err := d.changes.Record(ctx, repository.CreateProductChangeParams{
		ID:           uuid.NewString(),
		SyncJobID:    jobID,
		Code:         code,
		ChangeType:   string(changeType),
		FieldChanges: fieldChanges,
		CreatedAt:    now,
	})
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Failed to record product change")
	}
	return nil
}

// fieldDiffs compares every mapped field by exact value and returns the
// old/new pair for each one that differs.
func fieldDiffs(entry repository.CatalogEntry, rec ProductRecord) map[string]models.FieldChange {
	diffs := make(map[string]models.FieldChange)

	compare := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			diffs[field] = models.FieldChange{Old: oldVal, New: newVal}
		}
	}

	compare(FieldName, entry.Name, rec.Name)
	compare(FieldBrand, textValue(entry.Brand), rec.Brand)
	compare(FieldSize, textValue(entry.Size), rec.Size)
	compare(FieldCategory, textValue(entry.Category), rec.Category)
	compare(FieldSubcategory, textValue(entry.Subcategory), rec.Subcategory)

	return diffs
}

func textOf(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
