package logger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/db"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SyncLogHook implements zerolog.Hook and mirrors warn-and-above events into
// the sync_event_logs table so the dashboard can show them.
type SyncLogHook struct {
	db *db.DB
}

// NewSyncLogHook creates a new log hook
func NewSyncLogHook(db *db.DB) *SyncLogHook {
	return &SyncLogHook{
		db: db,
	}
}

// Run implements zerolog.Hook.Run
func (h *SyncLogHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.WarnLevel {
		return
	}

	event := LogEvent{
		Message: msg,
		Level:   level.String(),
	}

	// Persisted asynchronously to not block the logging call site.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.logToDatabase(ctx, event); err != nil {
			// Plain console log here; using the hooked logger again would recurse.
			log.Error().Err(err).Msg("Failed to log to database via hook")
		}
	}()
}

func (h *SyncLogHook) logToDatabase(ctx context.Context, event LogEvent) error {
	detailsJSON := json.RawMessage("{}")
	if event.Details != nil {
		if raw, err := json.Marshal(event.Details); err == nil {
			detailsJSON = raw
		}
	}

	params := repository.CreateSyncEventLogParams{
		ID:             uuid.New().String(),
		SourceConfigID: pgtype.Text{String: event.SourceConfigID, Valid: event.SourceConfigID != ""},
		SyncJobID:      pgtype.Text{String: event.SyncJobID, Valid: event.SyncJobID != ""},
		Level:          event.Level,
		Message:        event.Message,
		Details:        detailsJSON,
		CreatedAt:      time.Now(),
	}

	return h.db.Queries.CreateSyncEventLog(ctx, params)
}

// LogEvent represents one persisted log event
type LogEvent struct {
	SourceConfigID string
	SyncJobID      string
	Level          string
	Message        string
	Details        interface{}
}

// InitializeLogging sets up global zerolog configuration with the database hook
func InitializeLogging(db *db.DB) {
	hook := NewSyncLogHook(db)
	log.Logger = log.Logger.Hook(hook)
}

// LogService provides structured sync logging to the database
type LogService struct {
	db *db.DB
}

// NewLogService creates a new log service
func NewLogService(db *db.DB) *LogService {
	return &LogService{
		db: db,
	}
}

// Log creates a log entry in the database
func (s *LogService) Log(ctx context.Context, event LogEvent) error {
	detailsJSON := json.RawMessage("{}")
	if event.Details != nil {
		raw, err := json.Marshal(event.Details)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log details")
		} else {
			detailsJSON = raw
		}
	}

	if event.Level == "" {
		event.Level = "info"
	}

	params := repository.CreateSyncEventLogParams{
		ID:             uuid.New().String(),
		SourceConfigID: pgtype.Text{String: event.SourceConfigID, Valid: event.SourceConfigID != ""},
		SyncJobID:      pgtype.Text{String: event.SyncJobID, Valid: event.SyncJobID != ""},
		Level:          event.Level,
		Message:        event.Message,
		Details:        detailsJSON,
		CreatedAt:      time.Now(),
	}

	if err := s.db.Queries.CreateSyncEventLog(ctx, params); err != nil {
		log.Error().Err(err).Msg("Failed to insert log into database")
		return err
	}

	// Also log to console for visibility
	logEntry := log.Info()
	if event.SourceConfigID != "" {
		logEntry = logEntry.Str("sourceConfigID", event.SourceConfigID)
	}
	if event.SyncJobID != "" {
		logEntry = logEntry.Str("syncJobID", event.SyncJobID)
	}
	logEntry.
		Str("level", event.Level).
		Interface("details", event.Details).
		Msg(event.Message)

	return nil
}

// Error logs an error event tied to a source and job
func (s *LogService) Error(ctx context.Context, sourceConfigID, syncJobID, message string, err error) error {
	details := map[string]interface{}{}
	if err != nil {
		details["error"] = err.Error()
	}

	return s.Log(ctx, LogEvent{
		SourceConfigID: sourceConfigID,
		SyncJobID:      syncJobID,
		Level:          "error",
		Message:        message,
		Details:        details,
	})
}

// RecentEvents returns the most recent persisted log events
func (s *LogService) RecentEvents(ctx context.Context, limit int32) ([]repository.SyncEventLog, error) {
	return s.db.Queries.ListRecentSyncEventLogs(ctx, limit)
}

// CheckDatabaseHealth verifies the logging database is reachable
func (s *LogService) CheckDatabaseHealth(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetDatabaseStats returns connection pool statistics
func (s *LogService) GetDatabaseStats() map[string]interface{} {
	stats := s.db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stats.TotalConns(),
		"idle_conns":     stats.IdleConns(),
		"acquired_conns": stats.AcquiredConns(),
		"max_conns":      stats.MaxConns(),
	}
}
