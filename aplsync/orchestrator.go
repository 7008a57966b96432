package aplsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/config"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/constants"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/messaging"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/storage"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
)

// Locker serializes syncs per source identity.
type Locker interface {
	AcquireSyncLock(ctx context.Context, jurisdiction, dataSource, owner string, ttl time.Duration) (bool, error)
	ReleaseSyncLock(ctx context.Context, jurisdiction, dataSource, owner string) error
}

// Publisher emits completion events for downstream consumers.
type Publisher interface {
	PublishSync(ctx context.Context, subject string, data []byte) error
}

// CacheInvalidator drops cached catalog lookups after a catalog write.
type CacheInvalidator interface {
	InvalidateCatalogCache(ctx context.Context, jurisdiction string) error
}

// Orchestrator drives one full sync run per source: fetch, parse, validate,
// reconcile, and finalize the job row plus the source health row.
type Orchestrator struct {
	cfg     config.SyncConfig
	fetcher Fetcher
	differ  *Differ

	sources SourceConfigRepository
	catalog CatalogRepository
	jobs    SyncJobRepository
	health  SourceHealthRepository

	locker    Locker
	publisher Publisher
	cache     CacheInvalidator

	storage storage.StorageService
	bucket  string
}

// NewOrchestrator wires a sync orchestrator from its dependencies. Publisher,
// cache and storage may be nil; the corresponding steps are skipped.
func NewOrchestrator(
	cfg config.SyncConfig,
	fetcher Fetcher,
	differ *Differ,
	sources SourceConfigRepository,
	catalog CatalogRepository,
	jobs SyncJobRepository,
	health SourceHealthRepository,
	locker Locker,
	publisher Publisher,
	cache CacheInvalidator,
	store storage.StorageService,
	bucket string,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		fetcher:   fetcher,
		differ:    differ,
		sources:   sources,
		catalog:   catalog,
		jobs:      jobs,
		health:    health,
		locker:    locker,
		publisher: publisher,
		cache:     cache,
		storage:   store,
		bucket:    bucket,
	}
}

// SyncSource runs one sync for the source and returns the finalized job row.
// Exactly one run per (jurisdiction, data source) pair proceeds at a time;
// a concurrent caller gets common.ErrSyncInProgress without a job row.
//
// Force skips the content fingerprint short circuit so an unchanged file is
// reprocessed in full.
func (o *Orchestrator) SyncSource(ctx context.Context, source repository.SourceConfig, trigger constants.TriggerType, force bool) (repository.SyncJob, error) {
	if !source.Enabled {
		return repository.SyncJob{}, common.ErrSourceDisabled
	}

	owner := uuid.NewString()
	acquired, err := o.locker.AcquireSyncLock(ctx, source.Jurisdiction, source.DataSource, owner, o.cfg.LockTTL)
	if err != nil {
		return repository.SyncJob{}, fmt.Errorf("acquiring sync lock: %w", err)
	}
	if !acquired {
		return repository.SyncJob{}, common.ErrSyncInProgress
	}
	defer func() {
		if err := o.locker.ReleaseSyncLock(context.WithoutCancel(ctx), source.Jurisdiction, source.DataSource, owner); err != nil {
			log.Warn().Err(err).Str("jurisdiction", source.Jurisdiction).Str("data_source", source.DataSource).Msg("Failed to release sync lock")
		}
	}()

	started := time.Now()
	job, err := o.jobs.Create(ctx, repository.CreateSyncJobParams{
		ID:             uuid.NewString(),
		SourceConfigID: source.ID,
		Status:         string(constants.JobStatusPending),
		TriggerType:    string(trigger),
		StartedAt:      started,
		CreatedAt:      started,
	})
	if err != nil {
		return repository.SyncJob{}, fmt.Errorf("creating sync job: %w", err)
	}

	log.Info().
		Str("job_id", job.ID).
		Str("jurisdiction", source.Jurisdiction).
		Str("data_source", source.DataSource).
		Str("trigger", string(trigger)).
		Bool("force", force).
		Msg("Starting catalog sync")

	res, err := o.fetcher.Fetch(ctx, source.FetchURL)
	if err != nil {
		return o.fail(ctx, job, source, started, "fetch failed", err)
	}

	prev, prevErr := o.health.Get(ctx, source.ID)
	if prevErr != nil && !errors.Is(prevErr, pgx.ErrNoRows) {
		return o.fail(ctx, job, source, started, "reading source health", prevErr)
	}
	hadHealth := prevErr == nil

	// Unchanged content is a cheap no-op: the fingerprint is recorded, no
	// byte of the payload is parsed and the catalog stays untouched.
	if !force && hadHealth && prev.LastFingerprint.Valid && prev.LastFingerprint.String == res.Fingerprint {
		log.Info().Str("job_id", job.ID).Str("fingerprint", res.Fingerprint).Msg("Content unchanged, skipping sync")
		return o.complete(ctx, job, source, started, res.Fingerprint, "", DiffResult{}, prev, hadHealth)
	}

	archivePath := o.archiveImport(ctx, source, res)

	job, err = o.jobs.MarkRunning(ctx, repository.MarkSyncJobRunningParams{
		ID:                 job.ID,
		ContentFingerprint: textOf(res.Fingerprint),
		ArchivePath:        textOf(archivePath),
	})
	if err != nil {
		return o.fail(ctx, job, source, started, "marking job running", err)
	}

	parser, err := ForFormat(constants.DataFormat(source.Format))
	if err != nil {
		return o.fail(ctx, job, source, started, "unsupported format", err)
	}

	var mapping models.ColumnMapping
	if err := json.Unmarshal(source.ColumnMapping, &mapping); err != nil {
		return o.fail(ctx, job, source, started, "invalid column mapping", err)
	}

	records, err := parser.Parse(res.Body, mapping)
	if err != nil {
		return o.fail(ctx, job, source, started, "parse failed", err)
	}

	if err := ValidateRecordCount(len(records), int(source.MinExpectedRecords)); err != nil {
		return o.fail(ctx, job, source, started, "validation failed", err)
	}

	existing, err := o.catalog.CountActive(ctx, source.Jurisdiction)
	if err != nil {
		return o.fail(ctx, job, source, started, "counting active entries", err)
	}

	result, err := o.differ.Reconcile(ctx, job.ID, source.Jurisdiction, records)
	if err != nil {
		return o.fail(ctx, job, source, started, "reconcile failed", err)
	}

	maxRate := source.MaxChangeRate
	if maxRate <= 0 {
		maxRate = o.cfg.DefaultMaxChangeRate
	}
	warning := ValidateChangeRate(result.Added, result.Updated, result.Removed, existing, maxRate)
	if warning != "" {
		log.Warn().Str("job_id", job.ID).Str("jurisdiction", source.Jurisdiction).Msg(warning)
	}

	if o.cache != nil && result.Changed() > 0 {
		if err := o.cache.InvalidateCatalogCache(ctx, source.Jurisdiction); err != nil {
			log.Warn().Err(err).Str("jurisdiction", source.Jurisdiction).Msg("Failed to invalidate catalog cache")
		}
	}

	return o.complete(ctx, job, source, started, res.Fingerprint, warning, result, prev, hadHealth)
}

// archiveImport uploads the raw payload keyed by fingerprint and returns the
// object path. Archiving is best effort; a storage failure never fails a run.
func (o *Orchestrator) archiveImport(ctx context.Context, source repository.SourceConfig, res FetchResult) string {
	if o.storage == nil || o.bucket == "" {
		return ""
	}

	objectName := fmt.Sprintf("%s/%s/%s/%s", common.ImportArchivePrefix, source.Jurisdiction, source.DataSource, res.Fingerprint)
	path, err := o.storage.Upload(ctx, o.bucket, objectName, res.Body, res.ContentType)
	if err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("Failed to archive raw import")
		return ""
	}
	return path
}

func (o *Orchestrator) complete(ctx context.Context, job repository.SyncJob, source repository.SourceConfig, started time.Time, fingerprint, warning string, result DiffResult, prev repository.SourceHealth, hadHealth bool) (repository.SyncJob, error) {
	now := time.Now()
	job, err := o.jobs.Complete(ctx, repository.CompleteSyncJobParams{
		ID:                 job.ID,
		RowsProcessed:      int32(result.RowsProcessed),
		RecordsAdded:       int32(result.Added),
		RecordsUpdated:     int32(result.Updated),
		RecordsRemoved:     int32(result.Removed),
		RecordsUnchanged:   int32(result.Unchanged),
		RecordsReactivated: int32(result.Reactivated),
		ValidationErrors:   int32(result.ValidationErrors),
		Warning:            textOf(warning),
		ContentFingerprint: textOf(fingerprint),
		CompletedAt:        pgtype.Timestamptz{Time: now, Valid: true},
		DurationMs:         pgtype.Int8{Int64: now.Sub(started).Milliseconds(), Valid: true},
	})
	if err != nil {
		return job, fmt.Errorf("completing sync job: %w", err)
	}

	o.recordSuccess(ctx, job, source, fingerprint, prev, hadHealth)
	o.publishCompleted(ctx, job, source, warning, "")

	log.Info().
		Str("job_id", job.ID).
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("removed", result.Removed).
		Int("unchanged", result.Unchanged).
		Int("reactivated", result.Reactivated).
		Int("validation_errors", result.ValidationErrors).
		Msg("Catalog sync completed")

	return job, nil
}

// fail finalizes the job as failed and recomputes health. The catalog is
// never touched on this path.
func (o *Orchestrator) fail(ctx context.Context, job repository.SyncJob, source repository.SourceConfig, started time.Time, stage string, cause error) (repository.SyncJob, error) {
	now := time.Now()
	msg := fmt.Sprintf("%s: %v", stage, cause)

	failed, err := o.jobs.Fail(ctx, repository.FailSyncJobParams{
		ID:           job.ID,
		ErrorMessage: textOf(stage),
		ErrorDetail:  textOf(cause.Error()),
		CompletedAt:  pgtype.Timestamptz{Time: now, Valid: true},
		DurationMs:   pgtype.Int8{Int64: now.Sub(started).Milliseconds(), Valid: true},
	})
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to finalize failed job")
		failed = job
	}

	o.recordFailure(ctx, failed, source, msg)
	o.publishCompleted(ctx, failed, source, "", msg)

	log.Error().Err(cause).Str("job_id", job.ID).Str("jurisdiction", source.Jurisdiction).Str("data_source", source.DataSource).Msg("Catalog sync failed: " + stage)

	return failed, fmt.Errorf("%s: %w", stage, cause)
}

func (o *Orchestrator) recordSuccess(ctx context.Context, job repository.SyncJob, source repository.SourceConfig, fingerprint string, prev repository.SourceHealth, hadHealth bool) {
	now := time.Now()

	current, err := o.catalog.CountActive(ctx, source.Jurisdiction)
	if err != nil {
		log.Warn().Err(err).Str("jurisdiction", source.Jurisdiction).Msg("Failed to count active entries for health")
		current = int64(prev.CurrentRecordCount)
	}

	baseline := prev.BaselineRecordCount
	if !hadHealth || baseline == 0 {
		baseline = int32(current)
	}

	o.upsertHealth(ctx, repository.UpsertSourceHealthParams{
		SourceConfigID:      source.ID,
		LastJobID:           textOf(job.ID),
		LastAttemptAt:       pgtype.Timestamptz{Time: now, Valid: true},
		LastSuccessAt:       pgtype.Timestamptz{Time: now, Valid: true},
		LastFingerprint:     textOf(fingerprint),
		ConsecutiveFailures: 0,
		TotalRuns:           prev.TotalRuns + 1,
		TotalFailures:       prev.TotalFailures,
		CurrentRecordCount:  int32(current),
		BaselineRecordCount: baseline,
		Healthy:             true,
		Message:             pgtype.Text{},
		UpdatedAt:           now,
	})
}

func (o *Orchestrator) recordFailure(ctx context.Context, job repository.SyncJob, source repository.SourceConfig, msg string) {
	now := time.Now()

	prev, err := o.health.Get(ctx, source.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Warn().Err(err).Str("source_config_id", source.ID).Msg("Failed to read source health")
		return
	}

	failures := prev.ConsecutiveFailures + 1

	o.upsertHealth(ctx, repository.UpsertSourceHealthParams{
		SourceConfigID:      source.ID,
		LastJobID:           textOf(job.ID),
		LastAttemptAt:       pgtype.Timestamptz{Time: now, Valid: true},
		LastSuccessAt:       prev.LastSuccessAt,
		LastFingerprint:     prev.LastFingerprint,
		ConsecutiveFailures: failures,
		TotalRuns:           prev.TotalRuns + 1,
		TotalFailures:       prev.TotalFailures + 1,
		CurrentRecordCount:  prev.CurrentRecordCount,
		BaselineRecordCount: prev.BaselineRecordCount,
		Healthy:             int(failures) < o.cfg.FailureThreshold,
		Message:             textOf(msg),
		UpdatedAt:           now,
	})
}

func (o *Orchestrator) upsertHealth(ctx context.Context, arg repository.UpsertSourceHealthParams) {
	if _, err := o.health.Upsert(ctx, arg); err != nil {
		log.Error().Err(err).Str("source_config_id", arg.SourceConfigID).Msg("Failed to upsert source health")
	}
}

func (o *Orchestrator) publishCompleted(ctx context.Context, job repository.SyncJob, source repository.SourceConfig, warning, errorMessage string) {
	if o.publisher == nil {
		return
	}

	payload, err := json.Marshal(messaging.SyncCompleted{
		JobID:          job.ID,
		SourceConfigID: source.ID,
		Jurisdiction:   source.Jurisdiction,
		DataSource:     source.DataSource,
		Status:         job.Status,
		RecordsAdded:   int(job.RecordsAdded),
		RecordsUpdated: int(job.RecordsUpdated),
		RecordsRemoved: int(job.RecordsRemoved),
		Warning:        warning,
		ErrorMessage:   errorMessage,
	})
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to marshal completion event")
		return
	}

	if err := o.publisher.PublishSync(ctx, constants.SyncCompletedTopic, payload); err != nil {
		log.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to publish completion event")
	}
}
