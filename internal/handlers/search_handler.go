package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
	"adboard/internal/monitor"
)

type SearchHandler struct {
	index     interfaces.SearchIndex
	snapshots SnapshotSource
	mon       monitor.Monitor
	log       logger.Logger
}

func NewSearchHandler(index interfaces.SearchIndex, snapshots SnapshotSource, mon monitor.Monitor, log logger.Logger) *SearchHandler {
	return &SearchHandler{index: index, snapshots: snapshots, mon: mon, log: log}
}

// Search godoc
// @Tags Ads
// @Summary Full-text ad search
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum hits (default 20, max 100)"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		writeJSONErrorResponse(w, http.StatusServiceUnavailable, "search_unavailable", "Search is not configured")
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "q is required")
		return
	}
	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = n
	}

	ids, err := h.index.Search(r.Context(), q, limit)
	if err != nil {
		h.log.Error("search failed", logger.String("q", q), logger.Error(err))
		writeJSONErrorResponse(w, http.StatusBadGateway, "search_failed", "Search is unavailable")
		return
	}

	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}

	// the index may lag the snapshot; ids it no longer knows are dropped
	byID := make(map[int64]*models.Ad, len(snap.Ads))
	for i := range snap.Ads {
		byID[snap.Ads[i].ID] = &snap.Ads[i]
	}
	hits := make([]models.Ad, 0, len(ids))
	for _, id := range ids {
		if ad, ok := byID[id]; ok {
			hits = append(hits, *ad)
		}
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: hits})
}
