package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"

	"adboard/internal/interfaces"
	"adboard/internal/listing"
	"adboard/internal/logger"
	"adboard/internal/models"
	"adboard/internal/monitor"
	"adboard/internal/snapshot"
)

const (
	defaultRecommendedLimit = 6
	maxRecommendedLimit     = 50
	qrCodeSize              = 256

	// counters reach the cached snapshot at most this often
	counterRefreshInterval = time.Minute
)

// SnapshotSource serves the published catalogue.
type SnapshotSource interface {
	Get(ctx context.Context) (*snapshot.Snapshot, error)
	Invalidate(ctx context.Context) error
}

type PublicAdHandler struct {
	snapshots     SnapshotSource
	ads           interfaces.AdRepository
	mon           monitor.Monitor
	log           logger.Logger
	publicSiteURL string

	counterRefresh rate.Sometimes
}

func NewPublicAdHandler(
	snapshots SnapshotSource,
	ads interfaces.AdRepository,
	mon monitor.Monitor,
	log logger.Logger,
	publicSiteURL string,
) *PublicAdHandler {
	return &PublicAdHandler{
		snapshots:      snapshots,
		ads:            ads,
		mon:            mon,
		log:            log,
		publicSiteURL:  strings.TrimRight(publicSiteURL, "/"),
		counterRefresh: rate.Sometimes{Interval: counterRefreshInterval},
	}
}

// loadSnapshot writes the 503 response itself and returns nil on failure.
func loadSnapshot(w http.ResponseWriter, r *http.Request, src SnapshotSource, mon monitor.Monitor) *snapshot.Snapshot {
	snap, err := src.Get(r.Context())
	if err != nil {
		mon.LogAPIError(r.Context(), monitor.APIError{
			Method:  r.Method,
			Path:    r.URL.Path,
			Status:  http.StatusServiceUnavailable,
			Code:    "snapshot_unavailable",
			Message: "Failed to load ads",
			Err:     err,
		})
		writeJSONErrorResponse(w, http.StatusServiceUnavailable, "snapshot_unavailable", "Failed to load ads")
		return nil
	}
	return snap
}

// parseFilterConfig reads the public list query. An invalid priceRange is a 400.
func parseFilterConfig(r *http.Request) (listing.FilterConfig, error) {
	q := r.URL.Query()
	cfg := listing.FilterConfig{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		District:   q.Get("district"),
		PriceRange: q.Get("priceRange"),
		SortBy:     listing.ParseSortKey(q.Get("sortBy")),
	}
	if _, _, err := listing.ParsePriceRange(cfg.PriceRange); err != nil {
		return listing.FilterConfig{}, err
	}
	return cfg, nil
}

// List godoc
// @Tags Ads
// @Summary List published ads
// @Produce json
// @Param search query string false "Free-text search over title, description, district and address"
// @Param category query string false "Category ID"
// @Param district query string false "District ID"
// @Param priceRange query string false "Monthly price range, min-max or min-"
// @Param sortBy query string false "recent, price-low, price-high or name"
// @Param page query int false "Page (1-based)"
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/ads [get]
func (h *PublicAdHandler) List(w http.ResponseWriter, r *http.Request) {
	cfg, err := parseFilterConfig(r)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_price_range", "priceRange must look like min-max or min-")
		return
	}
	p, err := parsePaginationParams(r, listing.PageSize, listing.PageSize)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "invalid pagination parameters")
		return
	}

	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}

	filtered := listing.Apply(snap.Ads, cfg)
	page := listing.Paginate(filtered, p.page, p.pageSize)
	writePaginatedResponse(w, http.StatusOK, page, p.page, p.pageSize, len(filtered))
}

// All godoc
// @Tags Ads
// @Summary Every published ad
// @Produce json
// @Success 200 {object} dataResponse
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/ads/all [get]
func (h *PublicAdHandler) All(w http.ResponseWriter, r *http.Request) {
	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: snap.Ads})
}

// Recommended godoc
// @Tags Ads
// @Summary Recommended ads
// @Produce json
// @Param limit query int false "Maximum number of ads"
// @Success 200 {object} dataResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/ads/recommended [get]
func (h *PublicAdHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecommendedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecommendedLimit)
	}

	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}

	ranked := listing.Recommend(snap.Ads)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: ranked})
}

// Get godoc
// @Tags Ads
// @Summary Ad detail by slug or numeric ID
// @Produce json
// @Param slug path string true "Ad slug or ID"
// @Success 200 {object} models.Ad
// @Failure 404 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/ads/{slug} [get]
func (h *PublicAdHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}

	ad, ok := snap.FindAd(chi.URLParam(r, "slug"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusNotFound, "ad_not_found", "Ad not found")
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

// QRCode godoc
// @Tags Ads
// @Summary QR code linking to the public ad page
// @Produce png
// @Param slug path string true "Ad slug or ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/ads/{slug}/qrcode [get]
func (h *PublicAdHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	snap := loadSnapshot(w, r, h.snapshots, h.mon)
	if snap == nil {
		return
	}

	ad, ok := snap.FindAd(chi.URLParam(r, "slug"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusNotFound, "ad_not_found", "Ad not found")
		return
	}

	png, err := qrcode.Encode(h.detailURL(ad), qrcode.Medium, qrCodeSize)
	if err != nil {
		h.log.Error("qrcode encode failed", logger.Int64("ad_id", ad.ID), logger.Error(err))
		writeJSONErrorResponse(w, http.StatusInternalServerError, "qrcode_failed", "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *PublicAdHandler) detailURL(ad *models.Ad) string {
	return h.publicSiteURL + "/ads/" + ad.Slug
}

type counterResponse struct {
	ID      int64          `json:"id"`
	Counter models.Counter `json:"counter"`
	Value   int64          `json:"value"`
}

// IncrementCounter godoc
// @Tags Ads
// @Summary Record a view, favorite or inquiry
// @Produce json
// @Param id path int true "Ad ID"
// @Param counter path string true "view, favorite or inquiry"
// @Success 200 {object} counterResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/ads/{id}/{counter} [post]
func (h *PublicAdHandler) IncrementCounter(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Invalid ad ID")
		return
	}
	counter := models.Counter(chi.URLParam(r, "counter"))
	if _, ok := counter.Column(); !ok {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Unknown counter")
		return
	}

	value, err := h.ads.IncrementCounter(r.Context(), id, counter)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "ad_not_found", "Ad not found")
			return
		}
		h.log.Error("increment counter failed",
			logger.Int64("ad_id", id),
			logger.String("counter", string(counter)),
			logger.Error(err),
		)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "counter_failed", "Failed to record "+string(counter))
		return
	}

	h.counterRefresh.Do(func() {
		if err := h.snapshots.Invalidate(r.Context()); err != nil {
			h.log.Warn("snapshot invalidation after counter failed", logger.Error(err))
		}
	})

	writeJSON(w, http.StatusOK, counterResponse{ID: id, Counter: counter, Value: value})
}
