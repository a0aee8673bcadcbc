package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"adboard/internal/listing"
	"adboard/internal/logger"
	"adboard/internal/mapview"
	"adboard/internal/monitor"
)

const (
	defaultMapZoom = 11
	minMapZoom     = 1
	maxMapZoom     = 21
)

// MapHandler renders the filtered ads into a map plan that thin clients draw as-is.
type MapHandler struct {
	snapshots SnapshotSource
	mon       monitor.Monitor
	log       logger.Logger
}

func NewMapHandler(snapshots SnapshotSource, mon monitor.Monitor, log logger.Logger) *MapHandler {
	return &MapHandler{snapshots: snapshots, mon: mon, log: log}
}

// Plan godoc
// @Tags Map
// @Summary Marker and cluster plan for the filtered ads
// @Produce json
// @Param zoom query int false "Map zoom level (1-21)"
// @Param search query string false "Free-text search"
// @Param category query string false "Category ID"
// @Param district query string false "District ID"
// @Param priceRange query string false "Monthly price range"
// @Param selected query int false "Ad ID whose info window is open"
// @Success 200 {object} mapview.Plan
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/map [get]
func (h *MapHandler) Plan(w http.ResponseWriter, r *http.Request) {
	zoom := defaultMapZoom
	if v := r.URL.Query().Get("zoom"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < minMapZoom || n > maxMapZoom {
			writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_zoom", "zoom must be between 1 and 21")
			return
		}
		zoom = n
	}
	var selected int64
	if v := r.URL.Query().Get("selected"); v != "" {
		id, ok := parseIDParam(v)
		if !ok {
			writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid selected ad ID")
			return
		}
		selected = id
	}
	cfg, err := parseFilterConfig(r)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_price_range", "priceRange must look like min-max or min-")
		return
	}

	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}

	sdk := mapview.NewPlanSDK()
	renderer := mapview.NewRenderer(mapview.Options{Monitor: h.mon})
	defer renderer.Close()

	if err := renderer.Load(r.Context(), mapview.StaticLoader(sdk), zoom); err != nil {
		h.log.Error("map renderer load failed", logger.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, mapview.ErrMapUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeJSONErrorResponse(w, status, "map_unavailable", "Map is unavailable")
		return
	}
	if err := renderer.SetAds(listing.Filter(snap.Ads, cfg)); err != nil {
		writeJSONErrorResponse(w, http.StatusServiceUnavailable, "map_unavailable", "Map is unavailable")
		return
	}
	if selected != 0 {
		sdk.Click(selected)
	}

	plan := sdk.Plan(renderer.Zoom())
	plan.Degraded = renderer.Degraded()
	writeJSON(w, http.StatusOK, plan)
}
