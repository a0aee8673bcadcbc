package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
)

type DistrictHandler struct {
	repo      interfaces.DistrictRepository
	snapshots SnapshotSource
	log       logger.Logger
	validator *validator.Validate
}

func NewDistrictHandler(repo interfaces.DistrictRepository, snapshots SnapshotSource, log logger.Logger) *DistrictHandler {
	return &DistrictHandler{
		repo:      repo,
		snapshots: snapshots,
		log:       log,
		validator: validator.New(),
	}
}

// Create godoc
// @Tags Admin Districts
// @Summary Create district
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateDistrictRequest true "District"
// @Success 201 {object} models.District
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/districts [post]
func (h *DistrictHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDistrictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	district := &models.District{
		Name:        req.Name,
		City:        req.City,
		Description: req.Description,
	}
	if err := h.repo.Create(r.Context(), district); err != nil {
		if !writeRepositoryError(w, err, "district") {
			h.log.Error("create district failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to create district")
		}
		return
	}

	invalidateSnapshot(r.Context(), h.snapshots, h.log)
	writeJSON(w, http.StatusCreated, district)
}

// Get godoc
// @Tags Admin Districts
// @Summary Get district
// @Security BearerAuth
// @Produce json
// @Param id path int true "District ID"
// @Success 200 {object} models.District
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/districts/{id} [get]
func (h *DistrictHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid district ID")
		return
	}

	district, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if !writeRepositoryError(w, err, "district") {
			h.log.Error("get district failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get district")
		}
		return
	}
	writeJSON(w, http.StatusOK, district)
}

// List godoc
// @Tags Admin Districts
// @Summary List districts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dataResponse
// @Router /api/v1/admin/districts [get]
func (h *DistrictHandler) List(w http.ResponseWriter, r *http.Request) {
	districts, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error("list districts failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list districts")
		return
	}
	if districts == nil {
		districts = []models.District{}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: districts})
}

// Update godoc
// @Tags Admin Districts
// @Summary Update district
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "District ID"
// @Param body body models.UpdateDistrictRequest true "Fields to change"
// @Success 200 {object} models.District
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/districts/{id} [put]
func (h *DistrictHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid district ID")
		return
	}

	var req models.UpdateDistrictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if req.Name == nil && req.City == nil && req.Description == nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "No fields to update")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.repo.Update(r.Context(), id, &req); err != nil {
		if !writeRepositoryError(w, err, "district") {
			h.log.Error("update district failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to update district")
		}
		return
	}
	invalidateSnapshot(r.Context(), h.snapshots, h.log)

	district, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if !writeRepositoryError(w, err, "district") {
			writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get district")
		}
		return
	}
	writeJSON(w, http.StatusOK, district)
}

// Delete godoc
// @Tags Admin Districts
// @Summary Delete district
// @Security BearerAuth
// @Produce json
// @Param id path int true "District ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/districts/{id} [delete]
func (h *DistrictHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid district ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if !writeRepositoryError(w, err, "district") {
			h.log.Error("delete district failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to delete district")
		}
		return
	}
	invalidateSnapshot(r.Context(), h.snapshots, h.log)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "district deleted successfully",
		"id":      id,
	})
}
