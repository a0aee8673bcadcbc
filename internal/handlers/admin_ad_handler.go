package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
)

type AdminAdHandler struct {
	ads       interfaces.AdRepository
	images    interfaces.ImageRepository
	store     interfaces.ObjectStore
	snapshots SnapshotSource
	index     interfaces.SearchIndex
	log       logger.Logger
	validator *validator.Validate
}

func NewAdminAdHandler(
	ads interfaces.AdRepository,
	images interfaces.ImageRepository,
	store interfaces.ObjectStore,
	snapshots SnapshotSource,
	index interfaces.SearchIndex,
	log logger.Logger,
) *AdminAdHandler {
	return &AdminAdHandler{
		ads:       ads,
		images:    images,
		store:     store,
		snapshots: snapshots,
		index:     index,
		log:       log,
		validator: validator.New(),
	}
}

// adWritten refreshes derived read models after an ad changed. Failures are
// logged only; the nightly reindex repairs the search index.
func (h *AdminAdHandler) adWritten(ctx context.Context, id int64) {
	invalidateSnapshot(ctx, h.snapshots, h.log)
	if h.index == nil {
		return
	}

	ad, err := h.ads.GetByID(ctx, id)
	if err != nil {
		h.log.Warn("reindex: load ad failed", logger.Int64("ad_id", id), logger.Error(err))
		return
	}
	if ad.Status == models.AdStatusDraft {
		err = h.index.DeleteAd(ctx, id)
	} else {
		err = h.index.IndexAds(ctx, []models.Ad{*ad})
	}
	if err != nil {
		h.log.Warn("reindex ad failed", logger.Int64("ad_id", id), logger.Error(err))
	}
}

func invalidateSnapshot(ctx context.Context, snapshots SnapshotSource, log logger.Logger) {
	if err := snapshots.Invalidate(ctx); err != nil {
		log.Warn("snapshot invalidate failed", logger.Error(err))
	}
}

func parseAdFilter(r *http.Request) (models.AdFilter, bool) {
	q := r.URL.Query()
	filter := models.AdFilter{Status: q.Get("status")}
	for key, dst := range map[string]*int64{"category_id": &filter.CategoryID, "district_id": &filter.DistrictID} {
		if v := q.Get(key); v != "" {
			id, ok := parseIDParam(v)
			if !ok {
				return models.AdFilter{}, false
			}
			*dst = id
		}
	}
	return filter, true
}

// List godoc
// @Tags Admin Ads
// @Summary List ads including drafts
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param category_id query int false "Category ID"
// @Param district_id query int false "District ID"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/ads [get]
func (h *AdminAdHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := parsePaginationParams(r, 20, 100)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "invalid pagination parameters")
		return
	}
	filter, ok := parseAdFilter(r)
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "invalid filter parameters")
		return
	}

	total, err := h.ads.Count(r.Context(), filter)
	if err != nil {
		h.log.Error("count ads failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_ads_failed", "Failed to list ads")
		return
	}

	filter.Limit = p.limit
	filter.Offset = p.offset
	ads, err := h.ads.List(r.Context(), filter)
	if err != nil {
		h.log.Error("list ads failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_ads_failed", "Failed to list ads")
		return
	}
	if ads == nil {
		ads = []*models.Ad{}
	}

	writePaginatedResponse(w, http.StatusOK, ads, p.page, p.pageSize, total)
}

// Get godoc
// @Tags Admin Ads
// @Summary Get ad
// @Security BearerAuth
// @Produce json
// @Param id path int true "Ad ID"
// @Success 200 {object} models.Ad
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/ads/{id} [get]
func (h *AdminAdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid ad ID")
		return
	}

	ad, err := h.ads.GetByID(r.Context(), id)
	if err != nil {
		if !writeRepositoryError(w, err, "ad") {
			h.log.Error("get ad failed", logger.Int64("ad_id", id), logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "get_ad_failed", "Failed to get ad")
		}
		return
	}

	images, err := h.images.ListByAd(r.Context(), id)
	if err != nil {
		h.log.Error("list ad images failed", logger.Int64("ad_id", id), logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_ad_failed", "Failed to get ad")
		return
	}
	ad.Images = images

	writeJSON(w, http.StatusOK, ad)
}

// Create godoc
// @Tags Admin Ads
// @Summary Create ad
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateAdRequest true "Ad"
// @Success 201 {object} models.Ad
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/ads [post]
func (h *AdminAdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	base := slugify(req.Slug)
	if base == "" {
		base = slugify(req.Title)
	}
	slug, err := uniqueSlug(r.Context(), base, h.ads.SlugExists)
	if err != nil {
		h.log.Error("slug lookup failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_ad_failed", "Failed to create ad")
		return
	}

	status := req.Status
	if status == "" {
		status = models.AdStatusDraft
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	location := req.Location

	ad := &models.Ad{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		DistrictID:  req.DistrictID,
		Location:    &location,
		Specs:       req.Specs,
		Pricing:     req.Pricing,
		Metadata:    req.Metadata,
		Status:      status,
		Featured:    req.Featured,
		Verified:    req.Verified,
		Tags:        req.Tags,
		IsActive:    isActive,
		Images:      []models.AdImage{},
	}

	if err := h.ads.Create(r.Context(), ad); err != nil {
		if !writeRepositoryError(w, err, "ad") {
			h.log.Error("create ad failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "create_ad_failed", "Failed to create ad")
		}
		return
	}

	h.log.Info("ad created", logger.Int64("ad_id", ad.ID), logger.String("slug", ad.Slug))
	h.adWritten(r.Context(), ad.ID)
	writeJSON(w, http.StatusCreated, ad)
}

func emptyAdUpdate(req *models.UpdateAdRequest) bool {
	return req.Title == nil && req.Slug == nil && req.Description == nil &&
		req.CategoryID == nil && req.DistrictID == nil && req.Location == nil &&
		req.Specs == nil && req.Pricing == nil && req.Metadata == nil &&
		req.Status == nil && req.Featured == nil && req.Verified == nil &&
		req.Tags == nil && req.IsActive == nil
}

// Update godoc
// @Tags Admin Ads
// @Summary Update ad
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Ad ID"
// @Param body body models.UpdateAdRequest true "Fields to change"
// @Success 200 {object} models.Ad
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/ads/{id} [put]
func (h *AdminAdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid ad ID")
		return
	}

	var req models.UpdateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if emptyAdUpdate(&req) {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "No fields to update")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.Slug != nil {
		slug := slugify(*req.Slug)
		if slug == "" {
			writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "slug must contain letters or digits")
			return
		}
		req.Slug = &slug
	}

	if err := h.ads.Update(r.Context(), id, &req); err != nil {
		if !writeRepositoryError(w, err, "ad") {
			h.log.Error("update ad failed", logger.Int64("ad_id", id), logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "update_ad_failed", "Failed to update ad")
		}
		return
	}

	h.adWritten(r.Context(), id)

	ad, err := h.ads.GetByID(r.Context(), id)
	if err != nil {
		if !writeRepositoryError(w, err, "ad") {
			writeJSONErrorResponse(w, http.StatusInternalServerError, "get_ad_failed", "Failed to get ad")
		}
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

// Delete godoc
// @Tags Admin Ads
// @Summary Delete ad and its images
// @Security BearerAuth
// @Produce json
// @Param id path int true "Ad ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/ads/{id} [delete]
func (h *AdminAdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid ad ID")
		return
	}

	images, err := h.images.ListByAd(r.Context(), id)
	if err != nil {
		h.log.Error("list ad images failed", logger.Int64("ad_id", id), logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "delete_ad_failed", "Failed to delete ad")
		return
	}

	if err := h.ads.Delete(r.Context(), id); err != nil {
		if !writeRepositoryError(w, err, "ad") {
			h.log.Error("delete ad failed", logger.Int64("ad_id", id), logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "delete_ad_failed", "Failed to delete ad")
		}
		return
	}

	// rows are gone via ON DELETE CASCADE; objects have to be removed by hand
	for _, img := range images {
		if err := h.store.Delete(r.Context(), img.ObjectKey); err != nil {
			h.log.Warn("delete image object failed", logger.String("key", img.ObjectKey), logger.Error(err))
		}
	}

	invalidateSnapshot(r.Context(), h.snapshots, h.log)
	if h.index != nil {
		if err := h.index.DeleteAd(r.Context(), id); err != nil {
			h.log.Warn("remove ad from index failed", logger.Int64("ad_id", id), logger.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "ad deleted successfully",
		"id":      id,
	})
}

// Export godoc
// @Tags Admin Ads
// @Summary Export ads as an Excel workbook
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Status filter"
// @Success 200 {file} binary
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/ads/export.xlsx [get]
func (h *AdminAdHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseAdFilter(r)
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "invalid filter parameters")
		return
	}

	ads, err := h.ads.List(r.Context(), filter)
	if err != nil {
		h.log.Error("export: list ads failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "export_failed", "Failed to export ads")
		return
	}

	f, err := buildAdsWorkbook(ads)
	if err != nil {
		h.log.Error("export: build workbook failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "export_failed", "Failed to export ads")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="ads.xlsx"`)
	w.Header().Set("X-Total-Count", strconv.Itoa(len(ads)))
	if err := f.Write(w); err != nil {
		h.log.Error("export: write workbook failed", logger.Error(err))
	}
}
