package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
)

type imageFixture struct {
	images *mockImageRepo
	store  *mockStore
	snaps  *mockSnapshots
	router *chi.Mux
}

func newImageFixture() *imageFixture {
	f := &imageFixture{
		images: newMockImageRepo(),
		store:  newMockStore(),
		snaps:  &mockSnapshots{},
	}
	ads := newMockAdRepo(&models.Ad{ID: 7, Slug: "gangnam-led"})
	h := NewImageHandler(ads, f.images, f.store, f.snaps, logger.NewNop())

	r := chi.NewRouter()
	r.Post("/ads/{id}/images", h.Upload)
	r.Put("/ads/{id}/images/order", h.Reorder)
	r.Delete("/ads/{id}/images/{imageID}", h.Delete)
	f.router = r
	return f
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, target string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(data)
	}
	_ = mw.WriteField("alt", "정면")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	f := newImageFixture()

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, multipartRequest(t, "/ads/7/images", map[string][]byte{"front.png": pngBytes(t)}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Data []models.AdImage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Alt != "정면" {
		t.Fatalf("unexpected images %+v", resp.Data)
	}
	if !strings.HasPrefix(resp.Data[0].URL, "https://cdn.example.com/ads/7/") || !strings.HasSuffix(resp.Data[0].URL, ".png") {
		t.Fatalf("unexpected url %q", resp.Data[0].URL)
	}
	if len(f.store.objects) != 1 || len(f.images.images[7]) != 1 {
		t.Fatalf("expected one stored object and row, got %d and %d", len(f.store.objects), len(f.images.images[7]))
	}
	if f.snaps.invalidated != 1 {
		t.Fatalf("expected snapshot invalidated, got %d", f.snaps.invalidated)
	}
}

func TestUploadImageRejections(t *testing.T) {
	f := newImageFixture()

	tests := []struct {
		name   string
		target string
		files  map[string][]byte
		want   int
	}{
		{"not an image", "/ads/7/images", map[string][]byte{"notes.txt": []byte("hello")}, http.StatusBadRequest},
		{"no files", "/ads/7/images", map[string][]byte{}, http.StatusBadRequest},
		{"unknown ad", "/ads/8/images", map[string][]byte{"front.png": pngBytes(t)}, http.StatusNotFound},
		{"bad id", "/ads/x/images", map[string][]byte{"front.png": pngBytes(t)}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, multipartRequest(t, tt.target, tt.files))
			if w.Code != tt.want {
				t.Fatalf("expected %d got %d (%s)", tt.want, w.Code, w.Body.String())
			}
		})
	}
	if len(f.store.objects) != 0 {
		t.Fatalf("expected nothing stored, got %d objects", len(f.store.objects))
	}
}

func TestUploadImageStoreFailure(t *testing.T) {
	f := newImageFixture()
	f.store.putErr = errors.New("s3 down")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, multipartRequest(t, "/ads/7/images", map[string][]byte{"front.png": pngBytes(t)}))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", w.Code)
	}
}

func TestDeleteImage(t *testing.T) {
	f := newImageFixture()
	id := uuid.NewString()
	_ = f.images.Add(context.Background(), &models.AdImage{ID: id, AdID: 7, ObjectKey: "ads/7/" + id + ".png"})

	if w := sendJSON(f.router, http.MethodDelete, "/ads/7/images/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if w := sendJSON(f.router, http.MethodDelete, "/ads/7/images/"+uuid.NewString(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}

	w := sendJSON(f.router, http.MethodDelete, "/ads/7/images/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != "ads/7/"+id+".png" {
		t.Fatalf("expected object removed, got %v", f.store.deleted)
	}
}

func TestReorderImages(t *testing.T) {
	f := newImageFixture()
	a, b := uuid.NewString(), uuid.NewString()

	w := sendJSON(f.router, http.MethodPut, "/ads/7/images/order", `{"image_ids":["`+b+`","`+a+`"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}

	if w := sendJSON(f.router, http.MethodPut, "/ads/7/images/order", `{"image_ids":["nope"]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-uuid id, got %d", w.Code)
	}

	f.images.reorderErr = interfaces.ErrImageSetMismatch
	w = sendJSON(f.router, http.MethodPut, "/ads/7/images/order", `{"image_ids":["`+a+`"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "image_set_mismatch" {
		t.Fatalf("expected image_set_mismatch, got %v", resp["error"])
	}
}
