package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/db"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/utils"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

type CatalogHandler struct {
	db     *db.DB
	router *chi.Mux
}

func NewCatalogHandler(db *db.DB) *CatalogHandler {
	h := &CatalogHandler{
		db: db,
	}

	r := chi.NewRouter()
	r.Get("/{jurisdiction}", h.handleListEntries)
	r.Get("/{jurisdiction}/{code}", h.handleLookupEntry)

	h.router = r
	return h
}

func (h *CatalogHandler) Router() *chi.Mux {
	return h.router
}

// handleLookupEntry answers the in-store scan path. Lookups are cached per
// (jurisdiction, code) and the cache is dropped whenever a sync changes the
// jurisdiction's catalog. The incoming code gets the same normalization the
// sync pipeline applies, so a scanned barcode with check digits still hits.
func (h *CatalogHandler) handleLookupEntry(w http.ResponseWriter, r *http.Request) {
	jurisdiction := strings.ToLower(chi.URLParam(r, "jurisdiction"))
	code := aplsync.NormalizeCode(chi.URLParam(r, "code"))

	if !aplsync.ValidCode(code) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product code")
		return
	}

	if cached := h.db.Redis.GetCachedCatalogEntry(r.Context(), jurisdiction, code); cached.IsPresent() {
		utils.WriteJSON(w, http.StatusOK, cached.MustGet())
		return
	}

	entry, err := h.db.Queries.GetActiveCatalogEntryByCode(r.Context(), repository.GetActiveCatalogEntryByCodeParams{
		Code:         code,
		Jurisdiction: jurisdiction,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteError(w, http.StatusNotFound, "Product not approved in this jurisdiction")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to look up catalog entry")
		return
	}

	result := toCatalogEntryModel(entry)
	if err := h.db.Redis.CacheCatalogEntry(r.Context(), result); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Failed to cache catalog entry")
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *CatalogHandler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	jurisdiction := strings.ToLower(chi.URLParam(r, "jurisdiction"))
	category := r.URL.Query().Get("category")
	page := utils.QueryInt(r, "page", 1, 0)
	perPage := utils.QueryInt(r, "per_page", 50, 500)

	entries, err := h.db.Queries.ListActiveCatalogEntries(r.Context(), repository.ListActiveCatalogEntriesParams{
		Jurisdiction: jurisdiction,
		Category:     category,
		Limit:        int32(perPage),
		Offset:       int32((page - 1) * perPage),
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list catalog entries")
		return
	}

	total, err := h.db.Queries.CountActiveCatalogEntries(r.Context(), repository.CountActiveCatalogEntriesParams{
		Jurisdiction: jurisdiction,
		Category:     category,
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to count catalog entries")
		return
	}

	results := make([]models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		results = append(results, toCatalogEntryModel(e))
	}

	utils.WritePagination(w, http.StatusOK, results, page, perPage, total)
}
