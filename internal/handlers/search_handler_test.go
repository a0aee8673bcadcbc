package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"adboard/internal/logger"
	"adboard/internal/models"
	"adboard/internal/snapshot"
)

func newSearchRouter(index *mockIndex, snaps SnapshotSource) *chi.Mux {
	h := NewSearchHandler(index, snaps, &recordingMonitor{}, logger.NewNop())
	r := chi.NewRouter()
	r.Get("/search", h.Search)
	return r
}

func TestSearchKeepsIndexOrder(t *testing.T) {
	index := &mockIndex{hits: []int64{4, 2, 999}}
	r := newSearchRouter(index, &mockSnapshots{snap: &snapshot.Snapshot{Ads: testAds()}})

	w := serve(r, http.MethodGet, "/search?q=led&limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var body struct {
		Data []models.Ad `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Data) != 2 || body.Data[0].ID != 4 || body.Data[1].ID != 2 {
		t.Fatalf("expected ads 4,2 with the unknown hit dropped, got %+v", body.Data)
	}
}

func TestSearchValidation(t *testing.T) {
	r := newSearchRouter(&mockIndex{}, &mockSnapshots{snap: &snapshot.Snapshot{}})

	for _, target := range []string{"/search", "/search?q=%20", "/search?q=led&limit=0", "/search?q=led&limit=x"} {
		if w := serve(r, http.MethodGet, target); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, w.Code)
		}
	}
}

func TestSearchIndexFailure(t *testing.T) {
	r := newSearchRouter(&mockIndex{err: errors.New("connection refused")}, &mockSnapshots{snap: &snapshot.Snapshot{}})

	if w := serve(r, http.MethodGet, "/search?q=led"); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", w.Code)
	}
}

func TestSearchNotConfigured(t *testing.T) {
	h := NewSearchHandler(nil, &mockSnapshots{snap: &snapshot.Snapshot{}}, &recordingMonitor{}, logger.NewNop())
	r := chi.NewRouter()
	r.Get("/search", h.Search)

	if w := serve(r, http.MethodGet, "/search?q=led"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", w.Code)
	}
}
