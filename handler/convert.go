package handler

import (
	"encoding/json"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/jackc/pgx/v5/pgtype"
)

func pgText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func pgTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toSourceConfigModel(sc repository.SourceConfig) (models.SourceConfig, error) {
	var mapping models.ColumnMapping
	if len(sc.ColumnMapping) > 0 {
		if err := json.Unmarshal(sc.ColumnMapping, &mapping); err != nil {
			return models.SourceConfig{}, err
		}
	}

	return models.SourceConfig{
		ID:                 sc.ID,
		Jurisdiction:       sc.Jurisdiction,
		DataSource:         sc.DataSource,
		FetchURL:           sc.FetchURL,
		Format:             sc.Format,
		ColumnMapping:      mapping,
		Schedule:           pgText(sc.Schedule),
		Enabled:            sc.Enabled,
		MinExpectedRecords: int(sc.MinExpectedRecords),
		MaxChangeRate:      sc.MaxChangeRate,
		CreatedAt:          sc.CreatedAt,
		UpdatedAt:          sc.UpdatedAt,
	}, nil
}

func toCatalogEntryModel(e repository.CatalogEntry) models.CatalogEntry {
	return models.CatalogEntry{
		ID:               e.ID,
		Code:             e.Code,
		Jurisdiction:     e.Jurisdiction,
		Name:             e.Name,
		Brand:            pgText(e.Brand),
		Size:             pgText(e.Size),
		Category:         pgText(e.Category),
		Subcategory:      pgText(e.Subcategory),
		RestrictionNotes: pgText(e.RestrictionNotes),
		Active:           e.Active,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toSyncJobModel(j repository.SyncJob) models.SyncJob {
	var durationMs int64
	if j.DurationMs.Valid {
		durationMs = j.DurationMs.Int64
	}

	return models.SyncJob{
		ID:                 j.ID,
		SourceConfigID:     j.SourceConfigID,
		Status:             j.Status,
		TriggerType:        j.TriggerType,
		ContentFingerprint: pgText(j.ContentFingerprint),
		ArchivePath:        pgText(j.ArchivePath),
		RowsProcessed:      int(j.RowsProcessed),
		RecordsAdded:       int(j.RecordsAdded),
		RecordsUpdated:     int(j.RecordsUpdated),
		RecordsRemoved:     int(j.RecordsRemoved),
		RecordsUnchanged:   int(j.RecordsUnchanged),
		RecordsReactivated: int(j.RecordsReactivated),
		ValidationErrors:   int(j.ValidationErrors),
		Warning:            pgText(j.Warning),
		ErrorMessage:       pgText(j.ErrorMessage),
		StartedAt:          j.StartedAt,
		CompletedAt:        pgTime(j.CompletedAt),
		DurationMs:         durationMs,
	}
}

func toProductChangeModel(c repository.ProductChange) (models.ProductChange, error) {
	var fieldChanges map[string]models.FieldChange
	if len(c.FieldChanges) > 0 {
		if err := json.Unmarshal(c.FieldChanges, &fieldChanges); err != nil {
			return models.ProductChange{}, err
		}
	}

	return models.ProductChange{
		ID:           c.ID,
		SyncJobID:    c.SyncJobID,
		Code:         c.Code,
		ChangeType:   c.ChangeType,
		FieldChanges: fieldChanges,
		CreatedAt:    c.CreatedAt,
	}, nil
}

func toSourceHealthModel(h repository.SourceHealth) models.SourceHealth {
	return models.SourceHealth{
		SourceConfigID:      h.SourceConfigID,
		LastJobID:           pgText(h.LastJobID),
		LastAttemptAt:       pgTime(h.LastAttemptAt),
		LastSuccessAt:       pgTime(h.LastSuccessAt),
		ConsecutiveFailures: int(h.ConsecutiveFailures),
		TotalRuns:           int(h.TotalRuns),
		TotalFailures:       int(h.TotalFailures),
		CurrentRecordCount:  int(h.CurrentRecordCount),
		BaselineRecordCount: int(h.BaselineRecordCount),
		Healthy:             h.Healthy,
		Message:             pgText(h.Message),
	}
}
