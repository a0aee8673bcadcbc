package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sync"

	"adboard/internal/interfaces"
	"adboard/internal/models"
	"adboard/internal/monitor"
	"adboard/internal/snapshot"
)

type mockSnapshots struct {
	snap        *snapshot.Snapshot
	err         error
	invalidated int
}

func (m *mockSnapshots) Get(ctx context.Context) (*snapshot.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}

func (m *mockSnapshots) Invalidate(ctx context.Context) error {
	m.invalidated++
	return nil
}

type mockAdRepo struct {
	ads        map[int64]*models.Ad
	takenSlugs map[string]bool
	nextID     int64
	createErr  error
	counters   map[int64]int64
}

var _ interfaces.AdRepository = (*mockAdRepo)(nil)

func newMockAdRepo(ads ...*models.Ad) *mockAdRepo {
	m := &mockAdRepo{
		ads:        map[int64]*models.Ad{},
		takenSlugs: map[string]bool{},
		nextID:     100,
		counters:   map[int64]int64{},
	}
	for _, ad := range ads {
		m.ads[ad.ID] = ad
		m.takenSlugs[ad.Slug] = true
	}
	return m
}

func (m *mockAdRepo) Create(ctx context.Context, ad *models.Ad) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	ad.ID = m.nextID
	m.ads[ad.ID] = ad
	m.takenSlugs[ad.Slug] = true
	return nil
}

func (m *mockAdRepo) GetByID(ctx context.Context, id int64) (*models.Ad, error) {
	ad, ok := m.ads[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *ad
	return &cp, nil
}

func (m *mockAdRepo) GetBySlug(ctx context.Context, slug string) (*models.Ad, error) {
	for _, ad := range m.ads {
		if ad.Slug == slug {
			return ad, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdRepo) List(ctx context.Context, filter models.AdFilter) ([]*models.Ad, error) {
	out := []*models.Ad{}
	for _, ad := range m.ads {
		if filter.Status != "" && string(ad.Status) != filter.Status {
			continue
		}
		out = append(out, ad)
	}
	return out, nil
}

func (m *mockAdRepo) Count(ctx context.Context, filter models.AdFilter) (int, error) {
	ads, _ := m.List(ctx, filter)
	return len(ads), nil
}

func (m *mockAdRepo) ListPublished(ctx context.Context) ([]models.Ad, error) { return nil, nil }

func (m *mockAdRepo) Update(ctx context.Context, id int64, req *models.UpdateAdRequest) error {
	ad, ok := m.ads[id]
	if !ok {
		return sql.ErrNoRows
	}
	if req.Title != nil {
		ad.Title = *req.Title
	}
	if req.Slug != nil {
		ad.Slug = *req.Slug
	}
	if req.Status != nil {
		ad.Status = *req.Status
	}
	return nil
}

func (m *mockAdRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.ads[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.ads, id)
	return nil
}

func (m *mockAdRepo) IncrementCounter(ctx context.Context, id int64, counter models.Counter) (int64, error) {
	ad, ok := m.ads[id]
	if !ok || ad.Status == models.AdStatusDraft {
		return 0, sql.ErrNoRows
	}
	m.counters[id]++
	return m.counters[id], nil
}

func (m *mockAdRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return m.takenSlugs[slug], nil
}

type mockImageRepo struct {
	images     map[int64][]models.AdImage
	reorderErr error
}

var _ interfaces.ImageRepository = (*mockImageRepo)(nil)

func newMockImageRepo() *mockImageRepo {
	return &mockImageRepo{images: map[int64][]models.AdImage{}}
}

func (m *mockImageRepo) Add(ctx context.Context, image *models.AdImage) error {
	image.Order = len(m.images[image.AdID])
	m.images[image.AdID] = append(m.images[image.AdID], *image)
	return nil
}

func (m *mockImageRepo) GetByID(ctx context.Context, adID int64, imageID string) (*models.AdImage, error) {
	for _, img := range m.images[adID] {
		if img.ID == imageID {
			cp := img
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockImageRepo) ListByAd(ctx context.Context, adID int64) ([]models.AdImage, error) {
	out := append([]models.AdImage{}, m.images[adID]...)
	return out, nil
}

func (m *mockImageRepo) Delete(ctx context.Context, adID int64, imageID string) error {
	imgs := m.images[adID]
	for i, img := range imgs {
		if img.ID == imageID {
			m.images[adID] = append(imgs[:i], imgs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockImageRepo) Reorder(ctx context.Context, adID int64, imageIDs []string) error {
	return m.reorderErr
}

type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

var _ interfaces.ObjectStore = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{objects: map[string][]byte{}}
}

func (m *mockStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return "https://cdn.example.com/" + key, nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type mockIndex struct {
	indexed []int64
	deleted []int64
	hits    []int64
	err     error
}

var _ interfaces.SearchIndex = (*mockIndex)(nil)

func (m *mockIndex) EnsureIndex(ctx context.Context) error { return nil }

func (m *mockIndex) IndexAds(ctx context.Context, ads []models.Ad) error {
	for _, ad := range ads {
		m.indexed = append(m.indexed, ad.ID)
	}
	return nil
}

func (m *mockIndex) Reindex(ctx context.Context, ads []models.Ad) error { return nil }

func (m *mockIndex) DeleteAd(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockIndex) Search(ctx context.Context, query string, limit int64) ([]int64, error) {
	return m.hits, m.err
}

type recordingMonitor struct {
	mu           sync.Mutex
	clientErrors []monitor.ClientError
	apiErrors    []monitor.APIError
}

func (m *recordingMonitor) LogClientError(ctx context.Context, e monitor.ClientError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clientErrors = append(m.clientErrors, e)
}

func (m *recordingMonitor) LogAPIError(ctx context.Context, e monitor.APIError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiErrors = append(m.apiErrors, e)
}

func (m *recordingMonitor) LogPerformanceMetric(ctx context.Context, name string, value float64) {}

func int64p(v int64) *int64 { return &v }

// testAds covers two districts, one ad without coordinates and one without a price.
func testAds() []models.Ad {
	gangnam := &models.DistrictRef{ID: 1, Name: "강남구", City: "서울"}
	mapo := &models.DistrictRef{ID: 2, Name: "마포구", City: "서울"}
	led := &models.CategoryRef{ID: 1, Name: "LED 전광판"}
	billboard := &models.CategoryRef{ID: 2, Name: "빌보드"}
	coords := func(lng, lat float64) *models.Coordinates {
		c := models.Coordinates{lng, lat}
		return &c
	}

	return []models.Ad{
		{ID: 1, Slug: "gangnam-station-led", Title: "강남역 LED", CategoryID: 1, Category: led, DistrictID: 1, District: gangnam,
			Location: &models.Location{Address: "서울 강남구 강남대로 396", Coordinates: coords(127.0276, 37.4979)},
			Pricing:  models.Pricing{Monthly: int64p(3000000)}, Status: models.AdStatusActive, Featured: true, IsActive: true},
		{ID: 2, Slug: "hongdae-billboard", Title: "홍대입구 빌보드", CategoryID: 2, Category: billboard, DistrictID: 2, District: mapo,
			Location: &models.Location{Address: "서울 마포구 양화로 160", Coordinates: coords(126.9236, 37.5571)},
			Pricing:  models.Pricing{Monthly: int64p(1200000)}, Status: models.AdStatusActive, IsActive: true},
		{ID: 3, Slug: "sinsa-led", Title: "신사 LED", CategoryID: 1, Category: led, DistrictID: 1, District: gangnam,
			Location: &models.Location{Address: "서울 강남구 도산대로 101"},
			Pricing:  models.Pricing{Monthly: int64p(800000)}, Status: models.AdStatusSoldOut},
		{ID: 4, Slug: "yeoksam-led", Title: "역삼 LED", CategoryID: 1, Category: led, DistrictID: 1, District: gangnam,
			Location: &models.Location{Address: "서울 강남구 테헤란로 152", Coordinates: coords(127.0364, 37.5006)},
			Status:   models.AdStatusActive, IsActive: true, ViewCount: 5000},
	}
}

func manyAds(n int) []models.Ad {
	ads := make([]models.Ad, n)
	for i := range ads {
		ads[i] = models.Ad{
			ID:       int64(i + 1),
			Slug:     "ad-" + string(rune('a'+i%26)),
			Title:    "광고",
			Location: &models.Location{Address: "서울"},
			Pricing:  models.Pricing{Monthly: int64p(int64(1000 * (i + 1)))},
			Status:   models.AdStatusActive,
		}
	}
	return ads
}
