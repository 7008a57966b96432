package aplsync

import (
	"context"
	"errors"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/config"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/constants"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/work"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// SourceRunner runs one sync for one source.
type SourceRunner interface {
	SyncSource(ctx context.Context, source repository.SourceConfig, trigger constants.TriggerType, force bool) (repository.SyncJob, error)
}

// Monitor finds sources whose last attempt is older than the freshness
// window and drives their syncs through a bounded worker pool.
type Monitor struct {
	cfg     config.SyncConfig
	sources SourceConfigRepository
	health  SourceHealthRepository
	runner  SourceRunner
}

// NewMonitor creates a staleness monitor over the given runner
func NewMonitor(cfg config.SyncConfig, sources SourceConfigRepository, health SourceHealthRepository, runner SourceRunner) *Monitor {
	return &Monitor{
		cfg:     cfg,
		sources: sources,
		health:  health,
		runner:  runner,
	}
}

// RunSummary reports the outcome of one monitor sweep.
type RunSummary struct {
	Due       int
	Succeeded int
	Failed    int
	Skipped   int
}

// DueSources returns every enabled source that has never been attempted or
// whose last attempt is older than the freshness window as of now.
func (m *Monitor) DueSources(ctx context.Context, now time.Time) ([]repository.SourceConfig, error) {
	enabled, err := m.sources.GetEnabled(ctx)
	if err != nil {
		return nil, err
	}

	var due []repository.SourceConfig
	for _, source := range enabled {
		h, err := m.health.Get(ctx, source.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				due = append(due, source)
				continue
			}
			return nil, err
		}

		if !h.LastAttemptAt.Valid || now.Sub(h.LastAttemptAt.Time) >= m.cfg.FreshnessWindow {
			due = append(due, source)
		}
	}

	return due, nil
}

// RunDue syncs every due source. Sources run concurrently up to the
// configured worker count, and one source failing never stops the sweep;
// each failure lands on that source's own job and health rows.
func (m *Monitor) RunDue(ctx context.Context) (RunSummary, error) {
	due, err := m.DueSources(ctx, time.Now())
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{Due: len(due)}
	if len(due) == 0 {
		return summary, nil
	}

	pool, err := work.NewWorkerPool[repository.SyncJob](m.cfg.RunDueWorkers, len(due), m.cfg.FetchTimeout+m.cfg.LockTTL)
	if err != nil {
		return summary, err
	}
	pool.Start(ctx, "sync-monitor")
	defer pool.Stop()

	queued := 0
	for _, source := range due {
		src := source
		task, err := work.NewTask(func(taskCtx context.Context) (repository.SyncJob, error) {
			return m.runner.SyncSource(taskCtx, src, constants.TriggerScheduler, false)
		}, work.WithID[repository.SyncJob](src.Jurisdiction+"/"+src.DataSource))
		if err != nil {
			log.Error().Err(err).Str("source_config_id", src.ID).Msg("Failed to build sync task")
			summary.Failed++
			continue
		}

		if err := pool.AddTask(ctx, task); err != nil {
			log.Error().Err(err).Str("source_config_id", src.ID).Msg("Failed to queue sync task")
			summary.Failed++
			continue
		}
		queued++
	}

	for i := 0; i < queued; i++ {
		res := <-pool.Results()
		switch {
		case res.Error == nil:
			summary.Succeeded++
		case errors.Is(res.Error, common.ErrSyncInProgress), errors.Is(res.Error, common.ErrSourceDisabled):
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	log.Info().
		Int("due", summary.Due).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msg("Monitor sweep finished")

	return summary, nil
}

// Run sweeps on the given interval until the context ends. The first sweep
// happens immediately on start.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := m.RunDue(ctx); err != nil {
			log.Error().Err(err).Msg("Monitor sweep failed")
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
