package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"adboard/internal/logger"
	"adboard/internal/mapview"
	"adboard/internal/snapshot"
)

func newMapRouter(snaps SnapshotSource) *chi.Mux {
	h := NewMapHandler(snaps, &recordingMonitor{}, logger.NewNop())
	r := chi.NewRouter()
	r.Get("/map", h.Plan)
	return r
}

func decodePlan(t *testing.T, r http.Handler, target string) mapview.Plan {
	t.Helper()
	w := serve(r, http.MethodGet, target)
	if w.Code != http.StatusOK {
		t.Fatalf("%s: expected 200 got %d (%s)", target, w.Code, w.Body.String())
	}
	var plan mapview.Plan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return plan
}

func TestMapPlanClusterMode(t *testing.T) {
	r := newMapRouter(&mockSnapshots{snap: &snapshot.Snapshot{Ads: testAds()}})

	plan := decodePlan(t, r, "/map")
	if plan.Zoom != defaultMapZoom || plan.Mode != mapview.ModeCluster {
		t.Fatalf("expected cluster mode at zoom %d, got %s at %d", defaultMapZoom, plan.Mode, plan.Zoom)
	}
	if plan.GridSize != mapview.GridSize(defaultMapZoom) || len(plan.Icons) != 5 {
		t.Fatalf("unexpected cluster options: grid %d, %d icons", plan.GridSize, len(plan.Icons))
	}

	// ad 3 has no coordinates and never reaches the map
	drawn := len(plan.Markers)
	for _, c := range plan.Clusters {
		drawn += c.Count
	}
	if drawn != 3 {
		t.Fatalf("expected 3 ads drawn, got %d", drawn)
	}
	if plan.Bounds == nil {
		t.Fatal("expected the map to be fitted to the ads")
	}
}

func TestMapPlanIndividualMode(t *testing.T) {
	r := newMapRouter(&mockSnapshots{snap: &snapshot.Snapshot{Ads: testAds()}})

	plan := decodePlan(t, r, "/map?zoom=16&selected=2")
	if plan.Mode != mapview.ModeIndividual {
		t.Fatalf("expected individual mode, got %s", plan.Mode)
	}
	if len(plan.Markers) != 3 || len(plan.Clusters) != 0 {
		t.Fatalf("expected 3 markers and no clusters, got %d and %d", len(plan.Markers), len(plan.Clusters))
	}
	for _, m := range plan.Markers {
		if m.Content.Kind != mapview.MarkerPriceTag {
			t.Fatalf("ad %d: expected a price tag, got %s", m.AdID, m.Content.Kind)
		}
		if m.AdID == 4 && m.Content.Price != "문의" {
			t.Fatalf("expected the unpriced ad to read 문의, got %q", m.Content.Price)
		}
	}
	if plan.InfoWindow == nil || plan.InfoWindow.AdID != 2 {
		t.Fatalf("expected the info window on ad 2, got %+v", plan.InfoWindow)
	}
}

func TestMapPlanFilters(t *testing.T) {
	r := newMapRouter(&mockSnapshots{snap: &snapshot.Snapshot{Ads: testAds()}})

	plan := decodePlan(t, r, "/map?zoom=15&district=2")
	if len(plan.Markers) != 1 || plan.Markers[0].AdID != 2 {
		t.Fatalf("expected only ad 2, got %+v", plan.Markers)
	}
}

func TestMapPlanRejectsBadInput(t *testing.T) {
	r := newMapRouter(&mockSnapshots{snap: &snapshot.Snapshot{Ads: testAds()}})

	for _, target := range []string{"/map?zoom=0", "/map?zoom=22", "/map?zoom=x", "/map?selected=-1", "/map?priceRange=x"} {
		if w := serve(r, http.MethodGet, target); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, w.Code)
		}
	}
}

func TestMapPlanSnapshotUnavailable(t *testing.T) {
	r := newMapRouter(&mockSnapshots{err: snapshot.ErrUnavailable})

	if w := serve(r, http.MethodGet, "/map"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", w.Code)
	}
}
