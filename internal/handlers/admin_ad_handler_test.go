package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"

	"adboard/internal/logger"
	"adboard/internal/models"
)

type adminFixture struct {
	ads    *mockAdRepo
	images *mockImageRepo
	store  *mockStore
	snaps  *mockSnapshots
	index  *mockIndex
	router *chi.Mux
}

func newAdminFixture(ads ...*models.Ad) *adminFixture {
	f := &adminFixture{
		ads:    newMockAdRepo(ads...),
		images: newMockImageRepo(),
		store:  newMockStore(),
		snaps:  &mockSnapshots{},
		index:  &mockIndex{},
	}
	h := NewAdminAdHandler(f.ads, f.images, f.store, f.snaps, f.index, logger.NewNop())

	r := chi.NewRouter()
	r.Get("/ads", h.List)
	r.Post("/ads", h.Create)
	r.Get("/ads/export.xlsx", h.Export)
	r.Get("/ads/{id}", h.Get)
	r.Put("/ads/{id}", h.Update)
	r.Delete("/ads/{id}", h.Delete)
	f.router = r
	return f
}

func (f *adminFixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

const validAdBody = `{
	"title": "강남역 LED 전광판",
	"category_id": 1,
	"district_id": 1,
	"location": {"address": "서울 강남구 강남대로 396"},
	"pricing": {"monthly": 3000000}
}`

func TestCreateAd(t *testing.T) {
	f := newAdminFixture()

	w := f.do(http.MethodPost, "/ads", validAdBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	var ad models.Ad
	if err := json.Unmarshal(w.Body.Bytes(), &ad); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ad.Slug != "강남역-led-전광판" {
		t.Fatalf("unexpected slug %q", ad.Slug)
	}
	if ad.Status != models.AdStatusDraft || !ad.IsActive {
		t.Fatalf("expected an active draft, got status %s active %v", ad.Status, ad.IsActive)
	}
	if f.snaps.invalidated != 1 {
		t.Fatalf("expected snapshot invalidated once, got %d", f.snaps.invalidated)
	}
	// drafts are kept out of the search index
	if len(f.index.deleted) != 1 || len(f.index.indexed) != 0 {
		t.Fatalf("expected draft removed from index, got indexed %v deleted %v", f.index.indexed, f.index.deleted)
	}
}

func TestCreateAdSlugCollision(t *testing.T) {
	f := newAdminFixture(&models.Ad{ID: 1, Slug: "gangnam-led", Status: models.AdStatusActive})

	body := strings.Replace(validAdBody, `"title": "강남역 LED 전광판",`, `"title": "x", "slug": "Gangnam LED", "status": "active",`, 1)
	w := f.do(http.MethodPost, "/ads", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	var ad models.Ad
	_ = json.Unmarshal(w.Body.Bytes(), &ad)
	if ad.Slug != "gangnam-led-2" {
		t.Fatalf("expected gangnam-led-2, got %q", ad.Slug)
	}
	if len(f.index.indexed) != 1 || f.index.indexed[0] != ad.ID {
		t.Fatalf("expected active ad indexed, got %v", f.index.indexed)
	}
}

func TestCreateAdValidation(t *testing.T) {
	f := newAdminFixture()

	bodies := []string{
		`{`,
		`{"title": "no category", "district_id": 1, "location": {"address": "a"}, "pricing": {"monthly": 1}}`,
		`{"title": "no address", "category_id": 1, "district_id": 1, "pricing": {"monthly": 1}}`,
		strings.Replace(validAdBody, `"district_id": 1,`, `"district_id": 1, "status": "published",`, 1),
	}
	for _, body := range bodies {
		if w := f.do(http.MethodPost, "/ads", body); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d for %s", w.Code, body)
		}
	}
}

func TestCreateAdUnknownCategory(t *testing.T) {
	f := newAdminFixture()
	f.ads.createErr = &pq.Error{Code: "23503"}

	if w := f.do(http.MethodPost, "/ads", validAdBody); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateAd(t *testing.T) {
	f := newAdminFixture(&models.Ad{ID: 7, Slug: "old", Title: "old", Status: models.AdStatusDraft})

	w := f.do(http.MethodPut, "/ads/7", `{"title": "새 제목", "slug": "New Slug", "status": "active"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var ad models.Ad
	_ = json.Unmarshal(w.Body.Bytes(), &ad)
	if ad.Title != "새 제목" || ad.Slug != "new-slug" || ad.Status != models.AdStatusActive {
		t.Fatalf("unexpected ad after update %+v", ad)
	}
	if f.snaps.invalidated != 1 || len(f.index.indexed) != 1 {
		t.Fatalf("expected invalidate and reindex, got %d and %v", f.snaps.invalidated, f.index.indexed)
	}
}

func TestUpdateAdErrors(t *testing.T) {
	f := newAdminFixture(&models.Ad{ID: 7, Slug: "old"})

	tests := []struct {
		target string
		body   string
		want   int
	}{
		{"/ads/7", `{}`, http.StatusBadRequest},
		{"/ads/7", `{"slug": "!!!"}`, http.StatusBadRequest},
		{"/ads/7", `{"status": "published"}`, http.StatusBadRequest},
		{"/ads/x", `{"title": "t"}`, http.StatusBadRequest},
		{"/ads/99", `{"title": "t"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := f.do(http.MethodPut, tt.target, tt.body); w.Code != tt.want {
			t.Fatalf("%s %s: expected %d got %d", tt.target, tt.body, tt.want, w.Code)
		}
	}
	if f.snaps.invalidated != 0 {
		t.Fatalf("failed updates must not invalidate, got %d", f.snaps.invalidated)
	}
}

func TestGetAdIncludesImages(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(&models.Ad{ID: 7, Slug: "old"})
	_ = f.images.Add(ctx, &models.AdImage{ID: "a", AdID: 7, URL: "https://cdn.example.com/a.png"})

	w := f.do(http.MethodGet, "/ads/7", "")
	var ad models.Ad
	_ = json.Unmarshal(w.Body.Bytes(), &ad)
	if w.Code != http.StatusOK || len(ad.Images) != 1 {
		t.Fatalf("expected ad with one image, got %d (%s)", w.Code, w.Body.String())
	}

	if w := f.do(http.MethodGet, "/ads/8", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestDeleteAdRemovesObjects(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(&models.Ad{ID: 7, Slug: "old"})
	_ = f.images.Add(ctx, &models.AdImage{ID: "a", AdID: 7, ObjectKey: "ads/7/a.png"})
	_ = f.images.Add(ctx, &models.AdImage{ID: "b", AdID: 7, ObjectKey: "ads/7/b.png"})

	w := f.do(http.MethodDelete, "/ads/7", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if len(f.store.deleted) != 2 {
		t.Fatalf("expected 2 objects deleted, got %v", f.store.deleted)
	}
	if f.snaps.invalidated != 1 || len(f.index.deleted) != 1 || f.index.deleted[0] != 7 {
		t.Fatalf("expected invalidate and index removal, got %d and %v", f.snaps.invalidated, f.index.deleted)
	}

	if w := f.do(http.MethodDelete, "/ads/7", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestListAdminAds(t *testing.T) {
	f := newAdminFixture(
		&models.Ad{ID: 1, Slug: "a", Status: models.AdStatusDraft},
		&models.Ad{ID: 2, Slug: "b", Status: models.AdStatusActive},
	)

	w := f.do(http.MethodGet, "/ads?status=draft", "")
	var body struct {
		Data  []models.Ad `json:"data"`
		Total int         `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusOK || body.Total != 1 || body.Data[0].ID != 1 {
		t.Fatalf("expected the draft only, got %d (%s)", w.Code, w.Body.String())
	}

	if w := f.do(http.MethodGet, "/ads?category_id=abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/ads?page=1024819115206086203", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an out of range page, got %d", w.Code)
	}
}

func TestExportAds(t *testing.T) {
	f := newAdminFixture(&models.Ad{
		ID: 1, Slug: "gangnam-led", Title: "강남역 LED", Status: models.AdStatusActive,
		Location: &models.Location{Address: "서울 강남구"},
		Pricing:  models.Pricing{Monthly: int64p(3000000)},
	})

	w := f.do(http.MethodGet, "/ads/export.xlsx", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Total-Count"); got != "1" {
		t.Fatalf("expected X-Total-Count 1, got %q", got)
	}

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d rows", len(rows))
	}
	if rows[0][0] != "id" || rows[1][1] != "강남역 LED" || rows[1][7] != "3000000" {
		t.Fatalf("unexpected rows %v", rows)
	}
}
