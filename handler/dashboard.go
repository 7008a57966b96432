package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/db"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/services"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/utils"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

type DashboardHandler struct {
	db     *db.DB
	router *chi.Mux
}

func NewDashboardHandler(db *db.DB) *DashboardHandler {
	h := &DashboardHandler{
		db: db,
	}

	r := chi.NewRouter()
	r.Get("/sources", h.handleSources)
	r.Get("/jobs", h.handleRecentJobs)

	h.router = r
	return h
}

func (h *DashboardHandler) Router() *chi.Mux {
	return h.router
}

// handleSources joins every source config with its health row for the
// operations view. Sources that have never run get an empty health row.
func (h *DashboardHandler) handleSources(w http.ResponseWriter, r *http.Request) {
	sourceRepo := services.NewSourceConfigRepository(h.db.Queries)
	healthRepo := services.NewSourceHealthRepository(h.db.Queries)

	sources, err := sourceRepo.GetAll(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get source configs")
		return
	}

	healthRows, err := healthRepo.GetAll(r.Context())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get source health")
		return
	}

	healthByID := lo.KeyBy(healthRows, func(row repository.SourceHealth) string {
		return row.SourceConfigID
	})

	now := time.Now()
	rows := make([]models.SourceDashboardRow, 0, len(sources))
	for _, sc := range sources {
		source, err := toSourceConfigModel(sc)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Failed to unmarshal column mapping")
			return
		}

		row := models.SourceDashboardRow{Source: source}

		if hr, ok := healthByID[sc.ID]; ok {
			row.Health = toSourceHealthModel(hr)

			if hr.LastSuccessAt.Valid {
				row.HoursSinceSync = now.Sub(hr.LastSuccessAt.Time).Hours()
			}
			if hr.TotalRuns > 0 {
				row.FailureRate = float64(hr.TotalFailures) / float64(hr.TotalRuns)
			}
			if hr.BaselineRecordCount > 0 {
				row.CountDriftMargin = float64(hr.CurrentRecordCount-hr.BaselineRecordCount) / float64(hr.BaselineRecordCount)
			}
		}

		rows = append(rows, row)
	}

	utils.WriteJSON(w, http.StatusOK, rows)
}

func (h *DashboardHandler) handleRecentJobs(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", 20, 100)

	jobs, err := h.db.Queries.ListRecentSyncJobs(r.Context(), int32(limit))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	results := make([]models.SyncJob, 0, len(jobs))
	for _, j := range jobs {
		results = append(results, toSyncJobModel(j))
	}

	utils.WriteJSON(w, http.StatusOK, results)
}
