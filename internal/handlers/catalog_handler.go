package handlers

import (
	"net/http"

	"adboard/internal/monitor"
)

// CatalogHandler serves the public category and district lists from the snapshot.
type CatalogHandler struct {
	snapshots SnapshotSource
	mon       monitor.Monitor
}

func NewCatalogHandler(snapshots SnapshotSource, mon monitor.Monitor) *CatalogHandler {
	return &CatalogHandler{snapshots: snapshots, mon: mon}
}

// Categories godoc
// @Tags Catalog
// @Summary Categories with published ad counts
// @Produce json
// @Success 200 {object} dataResponse
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/categories [get]
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: snap.Categories})
}

// Districts godoc
// @Tags Catalog
// @Summary Districts with published ad counts
// @Produce json
// @Success 200 {object} dataResponse
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/districts [get]
func (h *CatalogHandler) Districts(w http.ResponseWriter, r *http.Request) {
	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: snap.Districts})
}
