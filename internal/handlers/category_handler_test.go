package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
)

type mockCategoryRepo struct {
	categories map[int64]*models.Category
	nextID     int64
	createErr  error
	deleteErr  error
}

var _ interfaces.CategoryRepository = (*mockCategoryRepo)(nil)

func (m *mockCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	c.ID = m.nextID
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, id int64, req *models.UpdateCategoryRequest) error {
	c, ok := m.categories[id]
	if !ok {
		return sql.ErrNoRows
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.categories[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.categories, id)
	return nil
}

func newCategoryRouter(repo *mockCategoryRepo, snaps *mockSnapshots) *chi.Mux {
	h := NewCategoryHandler(repo, snaps, logger.NewNop())
	r := chi.NewRouter()
	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Get("/categories/{id}", h.GetCategory)
	r.Put("/categories/{id}", h.UpdateCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)
	return r
}

func sendJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCategory(t *testing.T) {
	repo := &mockCategoryRepo{categories: map[int64]*models.Category{}}
	snaps := &mockSnapshots{}
	r := newCategoryRouter(repo, snaps)

	w := sendJSON(r, http.MethodPost, "/categories", `{"name":"LED 전광판"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	if snaps.invalidated != 1 {
		t.Fatalf("expected snapshot invalidated, got %d", snaps.invalidated)
	}

	if w := sendJSON(r, http.MethodPost, "/categories", `{"name":""}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestCreateCategoryDuplicate(t *testing.T) {
	repo := &mockCategoryRepo{categories: map[int64]*models.Category{}, createErr: &pq.Error{Code: "23505"}}
	r := newCategoryRouter(repo, &mockSnapshots{})

	w := sendJSON(r, http.MethodPost, "/categories", `{"name":"LED 전광판"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "duplicate_category" {
		t.Fatalf("expected duplicate_category, got %v", resp["error"])
	}
}

func TestListCategoriesEmpty(t *testing.T) {
	r := newCategoryRouter(&mockCategoryRepo{categories: map[int64]*models.Category{}}, &mockSnapshots{})

	w := sendJSON(r, http.MethodGet, "/categories", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"data":[]}` {
		t.Fatalf("expected empty data array, got %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateCategory(t *testing.T) {
	repo := &mockCategoryRepo{categories: map[int64]*models.Category{3: {ID: 3, Name: "old"}}}
	snaps := &mockSnapshots{}
	r := newCategoryRouter(repo, snaps)

	w := sendJSON(r, http.MethodPut, "/categories/3", `{"name":"new"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var c models.Category
	_ = json.Unmarshal(w.Body.Bytes(), &c)
	if c.Name != "new" || snaps.invalidated != 1 {
		t.Fatalf("unexpected result %+v invalidated %d", c, snaps.invalidated)
	}

	if w := sendJSON(r, http.MethodPut, "/categories/3", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if w := sendJSON(r, http.MethodPut, "/categories/4", `{"name":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestDeleteCategoryBlocked(t *testing.T) {
	repo := &mockCategoryRepo{
		categories: map[int64]*models.Category{3: {ID: 3, Name: "LED"}},
		deleteErr:  &interfaces.DeletionBlockedError{Resource: "category", References: map[string]int64{"ads": 4}},
	}
	snaps := &mockSnapshots{}
	r := newCategoryRouter(repo, snaps)

	w := sendJSON(r, http.MethodDelete, "/categories/3", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
	var resp struct {
		Error      string           `json:"error"`
		References map[string]int64 `json:"references"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "deletion_blocked" || resp.References["ads"] != 4 {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if snaps.invalidated != 0 {
		t.Fatal("blocked delete must not invalidate the snapshot")
	}
}

func TestDeleteCategory(t *testing.T) {
	repo := &mockCategoryRepo{categories: map[int64]*models.Category{3: {ID: 3, Name: "LED"}}}
	r := newCategoryRouter(repo, &mockSnapshots{})

	if w := sendJSON(r, http.MethodDelete, "/categories/3", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if w := sendJSON(r, http.MethodGet, "/categories/3", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
