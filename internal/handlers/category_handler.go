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

type CategoryHandler struct {
	repo      interfaces.CategoryRepository
	snapshots SnapshotSource
	log       logger.Logger
	validator *validator.Validate
}

func NewCategoryHandler(repo interfaces.CategoryRepository, snapshots SnapshotSource, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo:      repo,
		snapshots: snapshots,
		log:       log,
		validator: validator.New(),
	}
}

// CreateCategory godoc
// @Tags Admin Categories
// @Summary Create category
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/categories [post]
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.Create(r.Context(), category); err != nil {
		if !writeRepositoryError(w, err, "category") {
			h.log.Error("create category failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "create_category_failed", "Failed to create category")
		}
		return
	}

	invalidateSnapshot(r.Context(), h.snapshots, h.log)
	writeJSON(w, http.StatusCreated, category)
}

// GetCategory godoc
// @Tags Admin Categories
// @Summary Get category
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/admin/categories/{id} [get]
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid category ID")
		return
	}

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if !writeRepositoryError(w, err, "category") {
			h.log.Error("get category failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "get_category_failed", "Failed to get category")
		}
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// ListCategories godoc
// @Tags Admin Categories
// @Summary List categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dataResponse
// @Router /api/v1/admin/categories [get]
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error("list categories failed", logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_categories_failed", "Failed to list categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: categories})
}

// UpdateCategory godoc
// @Tags Admin Categories
// @Summary Update category
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body models.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} models.Category
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid category ID")
		return
	}

	var req models.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.Name == nil && req.Description == nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "No fields to update")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.repo.Update(r.Context(), id, &req); err != nil {
		if !writeRepositoryError(w, err, "category") {
			h.log.Error("update category failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "update_category_failed", "Failed to update category")
		}
		return
	}
	invalidateSnapshot(r.Context(), h.snapshots, h.log)

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if !writeRepositoryError(w, err, "category") {
			writeJSONErrorResponse(w, http.StatusInternalServerError, "get_category_failed", "Failed to get category")
		}
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory godoc
// @Tags Admin Categories
// @Summary Delete category
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid category ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if !writeRepositoryError(w, err, "category") {
			h.log.Error("delete category failed", logger.Error(err))
			writeJSONErrorResponse(w, http.StatusInternalServerError, "delete_category_failed", "Failed to delete category")
		}
		return
	}
	invalidateSnapshot(r.Context(), h.snapshots, h.log)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "category deleted successfully",
		"id":      id,
	})
}
