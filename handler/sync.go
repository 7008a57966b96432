package handler

import (
	"errors"
	"net/http"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/db"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/storage"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/utils"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// signedURLExpirySeconds bounds how long an archive download link stays valid.
const signedURLExpirySeconds = 15 * 60

type JobHandler struct {
	db      *db.DB
	storage storage.StorageService
	bucket  string
	router  *chi.Mux
}

func NewJobHandler(db *db.DB, store storage.StorageService, bucket string) *JobHandler {
	h := &JobHandler{
		db:      db,
		storage: store,
		bucket:  bucket,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleListJobs)
	r.Get("/{id}", h.handleGetJob)
	r.Get("/{id}/changes", h.handleListJobChanges)
	r.Get("/{id}/archive", h.handleArchiveURL)

	h.router = r
	return h
}

func (h *JobHandler) Router() *chi.Mux {
	return h.router
}

func (h *JobHandler) handleListJobs(w http.ResponseWriter, r *http.Request) {
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

func (h *JobHandler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.db.Queries.GetSyncJobById(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteError(w, http.StatusNotFound, "Job not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	utils.WriteJSON(w, http.StatusOK, toSyncJobModel(job))
}

func (h *JobHandler) handleListJobChanges(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := utils.QueryInt(r, "page", 1, 0)
	perPage := utils.QueryInt(r, "per_page", 50, 500)

	changes, err := h.db.Queries.ListProductChangesByJob(r.Context(), repository.ListProductChangesByJobParams{
		SyncJobID: id,
		Limit:     int32(perPage),
		Offset:    int32((page - 1) * perPage),
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list changes")
		return
	}

	results := make([]models.ProductChange, 0, len(changes))
	for _, c := range changes {
		m, err := toProductChangeModel(c)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Failed to unmarshal field changes")
			return
		}
		results = append(results, m)
	}

	utils.WriteJSON(w, http.StatusOK, results)
}

// handleArchiveURL returns a short-lived signed URL for the raw file a job
// ingested, so an operator can pull the exact bytes behind a diff.
func (h *JobHandler) handleArchiveURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.db.Queries.GetSyncJobById(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteError(w, http.StatusNotFound, "Job not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	if !job.ArchivePath.Valid || job.ArchivePath.String == "" {
		utils.WriteError(w, http.StatusNotFound, "No archived import for this job")
		return
	}
	if h.storage == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "Archive storage is not configured")
		return
	}

	url, err := h.storage.GetSignedURL(r.Context(), h.bucket, job.ArchivePath.String, signedURLExpirySeconds)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to sign archive URL")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
