package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"

	"adboard/internal/config"
	"adboard/internal/middleware"
	"adboard/internal/models"
	"adboard/internal/snapshot"
)

type healthResp struct {
	Status string `json:"status"`
	DB     struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	} `json:"db"`
}

type staticSnapshots struct {
	snap *snapshot.Snapshot
}

func (s staticSnapshots) Get(context.Context) (*snapshot.Snapshot, error) { return s.snap, nil }
func (s staticSnapshots) Invalidate(context.Context) error                { return nil }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.JWT.Secret = "dev"
	return cfg
}

func testDeps(db *sql.DB) Deps {
	return Deps{
		DB:       db,
		Config:   testConfig(),
		Gatherer: prometheus.NewRegistry(),
		Snapshots: staticSnapshots{snap: &snapshot.Snapshot{
			Ads: []models.Ad{{ID: 1, Slug: "gangnam-led", Title: "강남역 LED", Status: models.AdStatusActive}},
		}},
	}
}

func TestRootReturnsJSON(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := SetupRoutes(testDeps(db))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["message"] == "" {
		t.Fatalf("expected message, got %v", body)
	}
}

func TestHealthDBOK(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()

	r := SetupRoutes(testDeps(db))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp healthResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.DB.Status != "ok" {
		t.Fatalf("expected db ok, got %+v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestHealthDBDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	r := SetupRoutes(testDeps(db))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d (%s)", w.Code, w.Body.String())
	}
	var resp healthResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.DB.Status != "down" {
		t.Fatalf("expected db down, got %+v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPublicRoutesServeSnapshot(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := SetupRoutes(testDeps(db))
	for _, target := range []string{"/api/v1/ads", "/api/v1/ads/all", "/api/v1/ads/gangnam-led", "/api/v1/map?zoom=15"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", target, w.Code, w.Body.String())
		}
	}
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := SetupRoutes(testDeps(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/categories", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, err := middleware.IssueToken("dev", "u1", "editor@adboard.kr", "editor", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/categories", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin token, got %d", w.Code)
	}
}

func TestCounterRouteIsRateLimited(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	deps := testDeps(db)
	deps.Config.RateLimit.RequestsPerSecond = 0.001
	deps.Config.RateLimit.Burst = 1
	r := SetupRoutes(deps)

	mock.ExpectQuery(`UPDATE ads SET view_count`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(int64(11)))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ads/1/view", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	if code := send(); code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request 429, got %d", code)
	}
}

func TestMetricsAndNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := SetupRoutes(testDeps(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("expected JSON 404, got %d %s", w.Code, w.Body.String())
	}
}
