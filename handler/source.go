package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/constants"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/db"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/services"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/utils"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SourceHandler struct {
	db     *db.DB
	runner aplsync.SourceRunner
	router *chi.Mux
}

func NewSourceHandler(db *db.DB, runner aplsync.SourceRunner) *SourceHandler {
	h := &SourceHandler{
		db:     db,
		runner: runner,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleListSources)
	r.Post("/", h.handleCreateSource)
	r.Get("/{id}", h.handleGetSource)
	r.Put("/{id}", h.handleUpdateSource)
	r.Delete("/{id}", h.handleDeleteSource)
	r.Post("/{id}/sync", h.handleTriggerSync)
	r.Get("/{id}/jobs", h.handleListSourceJobs)

	h.router = r
	return h
}

func (h *SourceHandler) Router() *chi.Mux {
	return h.router
}

func (h *SourceHandler) handleListSources(w http.ResponseWriter, r *http.Request) {
	repo := services.NewSourceConfigRepository(h.db.Queries)
	sources, err := repo.GetAll(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get source configs")
		return
	}

	results := make([]models.SourceConfig, 0, len(sources))
	for _, sc := range sources {
		m, err := toSourceConfigModel(sc)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Failed to unmarshal column mapping")
			return
		}
		results = append(results, m)
	}

	utils.WriteJSON(w, http.StatusOK, results)
}

func (h *SourceHandler) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var p models.SourceConfig
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if p.Jurisdiction == "" || p.DataSource == "" || p.FetchURL == "" {
		utils.WriteError(w, http.StatusBadRequest, "jurisdiction, data_source and fetch_url are required")
		return
	}
	if _, err := aplsync.ForFormat(constants.DataFormat(p.Format)); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Unsupported data format: "+p.Format)
		return
	}

	mapping, err := json.Marshal(p.ColumnMapping)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to marshal column mapping")
		return
	}

	repo := services.NewSourceConfigRepository(h.db.Queries)
	source, err := repo.Create(r.Context(), repository.CreateSourceConfigParams{
		ID:                 uuid.NewString(),
		Jurisdiction:       p.Jurisdiction,
		DataSource:         p.DataSource,
		FetchURL:           p.FetchURL,
		Format:             p.Format,
		ColumnMapping:      mapping,
		Schedule:           pgtype.Text{String: p.Schedule, Valid: p.Schedule != ""},
		Enabled:            p.Enabled,
		MinExpectedRecords: int32(p.MinExpectedRecords),
		MaxChangeRate:      p.MaxChangeRate,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create source config")
		return
	}

	result, err := toSourceConfigModel(source)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to unmarshal column mapping")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, result)
}

func (h *SourceHandler) handleGetSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	repo := services.NewSourceConfigRepository(h.db.Queries)
	source, err := repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteError(w, http.StatusNotFound, "Source config not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get source config")
		return
	}

	result, err := toSourceConfigModel(source)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to unmarshal column mapping")
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *SourceHandler) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p models.SourceConfig
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if _, err := aplsync.ForFormat(constants.DataFormat(p.Format)); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Unsupported data format: "+p.Format)
		return
	}

	mapping, err := json.Marshal(p.ColumnMapping)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to marshal column mapping")
		return
	}

	repo := services.NewSourceConfigRepository(h.db.Queries)
	source, err := repo.Update(r.Context(), repository.UpdateSourceConfigParams{
		ID:                 id,
		FetchURL:           p.FetchURL,
		Format:             p.Format,
		ColumnMapping:      mapping,
		Schedule:           pgtype.Text{String: p.Schedule, Valid: p.Schedule != ""},
		Enabled:            p.Enabled,
		MinExpectedRecords: int32(p.MinExpectedRecords),
		MaxChangeRate:      p.MaxChangeRate,
		UpdatedAt:          time.Now(),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteError(w, http.StatusNotFound, "Source config not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update source config")
		return
	}

	result, err := toSourceConfigModel(source)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to unmarshal column mapping")
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *SourceHandler) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	repo := services.NewSourceConfigRepository(h.db.Queries)
	if err := repo.Delete(r.Context(), id); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete source config")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Source config deleted")
}

// handleTriggerSync runs one sync for the source inline and returns the
// finalized job row, failed runs included. Force bypasses the unchanged
// content short circuit.
func (h *SourceHandler) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	force := r.URL.Query().Get("force") == "true"

	repo := services.NewSourceConfigRepository(h.db.Queries)
	source, err := repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteError(w, http.StatusNotFound, "Source config not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get source config")
		return
	}

	job, err := h.runner.SyncSource(r.Context(), source, constants.TriggerManual, force)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrSourceDisabled):
			utils.WriteError(w, http.StatusUnprocessableEntity, "Source is disabled")
			return
		case errors.Is(err, common.ErrSyncInProgress):
			utils.WriteError(w, http.StatusConflict, "A sync is already running for this source")
			return
		case job.ID == "":
			utils.WriteError(w, http.StatusInternalServerError, "Failed to start sync")
			return
		}
		// The run failed after a job row existed; the row carries the
		// error and is the useful response.
	}

	utils.WriteJSON(w, http.StatusOK, toSyncJobModel(job))
}

func (h *SourceHandler) handleListSourceJobs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := utils.QueryInt(r, "limit", 20, 100)

	jobs, err := h.db.Queries.ListSyncJobsBySource(r.Context(), repository.ListSyncJobsBySourceParams{
		SourceConfigID: id,
		Limit:          int32(limit),
	})
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
