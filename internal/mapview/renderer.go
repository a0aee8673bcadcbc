package mapview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"adboard/internal/models"
	"adboard/internal/monitor"
)

// ErrMapUnavailable means the map SDK or its clustering plugin could not be loaded.
// A renderer that hit it stays failed.
var ErrMapUnavailable = errors.New("map unavailable")

const (
	DefaultZoomDelay   = 200 * time.Millisecond
	DefaultBoundsDelay = 300 * time.Millisecond
)

type Options struct {
	// OnMarkerClick runs synchronously inside the marker's click handler.
	OnMarkerClick func(ad models.Ad)
	// OnBoundsChange receives the coalesced viewport after pans and zooms.
	OnBoundsChange func(b Bounds)
	Monitor        monitor.Monitor
	ZoomDelay      time.Duration
	BoundsDelay    time.Duration
}

// Renderer owns every overlay it puts on one map. It is safe for concurrent use;
// coalesced zoom and bounds events arrive on timer goroutines.
type Renderer struct {
	mu   sync.Mutex
	opts Options

	sdk     SDK
	loadErr error
	closed  bool

	ads       []models.Ad
	zoom      int
	mode      Mode
	markers   []Marker
	clusterer Clusterer
	degraded  bool
	// needsFit is set by SetAds and cleared by the first render that fits bounds.
	needsFit bool

	zoomEvents   *Coalescer[int]
	boundsEvents *Coalescer[Bounds]
}

func NewRenderer(opts Options) *Renderer {
	if opts.Monitor == nil {
		opts.Monitor = monitor.Nop()
	}
	if opts.ZoomDelay <= 0 {
		opts.ZoomDelay = DefaultZoomDelay
	}
	if opts.BoundsDelay <= 0 {
		opts.BoundsDelay = DefaultBoundsDelay
	}

	r := &Renderer{opts: opts}
	r.zoomEvents = NewCoalescer(opts.ZoomDelay, r.applyZoom)
	r.boundsEvents = NewCoalescer(opts.BoundsDelay, r.applyBounds)
	return r
}

// Load loads the SDK once at the given zoom. After a failure every later call
// returns the same error without calling load again.
func (r *Renderer) Load(ctx context.Context, load Loader, zoom int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return r.loadErr
	}
	if r.sdk != nil {
		return nil
	}

	sdk, err := load(ctx)
	if err == nil && sdk == nil {
		err = errors.New("loader returned no sdk")
	}
	if err != nil {
		r.loadErr = fmt.Errorf("%w: %v", ErrMapUnavailable, err)
		return r.loadErr
	}

	r.sdk = sdk
	r.zoom = zoom
	r.mode = ModeFor(zoom)
	if r.ads != nil {
		r.render()
	}
	return nil
}

// SetAds replaces the ad set and re-renders. The next render fits the map to the new ads.
func (r *Renderer) SetAds(ads []models.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return r.loadErr
	}
	if r.closed {
		return nil
	}

	r.ads = make([]models.Ad, len(ads))
	copy(r.ads, ads)
	r.needsFit = true
	if r.sdk != nil {
		r.render()
	}
	return nil
}

// ZoomChanged is the SDK zoom event; it takes effect after the zoom delay.
func (r *Renderer) ZoomChanged(zoom int) {
	r.zoomEvents.Trigger(zoom)
}

// BoundsChanged is the SDK idle/drag event; it is forwarded after the bounds delay.
func (r *Renderer) BoundsChanged(b Bounds) {
	r.boundsEvents.Trigger(b)
}

// FlushEvents applies pending zoom and bounds events now.
func (r *Renderer) FlushEvents() {
	r.zoomEvents.Flush()
	r.boundsEvents.Flush()
}

func (r *Renderer) applyZoom(zoom int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sdk == nil || r.closed || zoom == r.zoom {
		return
	}
	prev := r.zoom
	r.zoom = zoom

	mode := ModeFor(zoom)
	changed := mode != r.mode
	if mode == ModeCluster && !changed {
		// clusterer options are zoom dependent
		changed = GridSize(prev) != GridSize(zoom) || iconScaleBand(prev) != iconScaleBand(zoom)
	}
	r.mode = mode
	if changed {
		r.render()
	}
}

func iconScaleBand(zoom int) bool {
	return zoom >= 10 && zoom <= 13
}

func (r *Renderer) applyBounds(b Bounds) {
	r.mu.Lock()
	closed := r.closed
	cb := r.opts.OnBoundsChange
	r.mu.Unlock()

	if closed || cb == nil {
		return
	}
	cb(b)
}

// VisibleAds returns the ads to draw for a viewport. Every ad is drawn regardless
// of the viewport; the clusterer keeps large sets manageable.
func (r *Renderer) VisibleAds(_ Bounds) []models.Ad {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Ad, len(r.ads))
	copy(out, r.ads)
	return out
}

func (r *Renderer) Zoom() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zoom
}

func (r *Renderer) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// MarkerCount is the number of markers the current render created.
func (r *Renderer) MarkerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.markers)
}

// Degraded reports whether the current render fell back to unclustered markers.
func (r *Renderer) Degraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded
}

// Close stops pending events and removes every overlay from the map.
func (r *Renderer) Close() {
	r.zoomEvents.Stop()
	r.boundsEvents.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.teardown()
}

// teardown must be called with r.mu held.
func (r *Renderer) teardown() {
	if r.sdk == nil {
		return
	}
	if r.clusterer != nil {
		r.clusterer.Detach()
		r.clusterer = nil
	}
	for _, m := range r.markers {
		m.Detach()
	}
	r.markers = nil
	r.degraded = false
	r.sdk.CloseInfoWindow()
}

// render must be called with r.mu held.
func (r *Renderer) render() {
	r.teardown()

	var (
		bounds    Bounds
		hasBounds bool
	)
	markers := make([]Marker, 0, len(r.ads))
	for i := range r.ads {
		ad := r.ads[i]
		coords, ok := ad.Position()
		if !ok {
			continue
		}
		pos := LatLng{Lat: coords.Lat(), Lng: coords.Lng()}
		if !hasBounds {
			bounds = Bounds{SW: pos, NE: pos}
			hasBounds = true
		} else {
			bounds = bounds.Extend(pos)
		}

		m := r.sdk.NewMarker(ad.ID, pos, r.markerContent(&ad))
		m.OnClick(func() { r.handleClick(ad, pos) })
		markers = append(markers, m)
	}
	r.markers = markers

	if r.mode == ModeIndividual {
		for _, m := range markers {
			m.Attach()
		}
	} else if len(markers) > 0 {
		clusterer, err := r.newClusterer(markers)
		if err != nil {
			r.degraded = true
			r.opts.Monitor.LogClientError(context.Background(), monitor.ClientError{
				Message:   "marker clusterer failed, drawing markers individually: " + err.Error(),
				Component: "mapview",
				Timestamp: time.Now(),
				Extra:     map[string]any{"zoom": r.zoom, "markers": len(markers)},
			})
			for _, m := range markers {
				m.Attach()
			}
		} else {
			r.clusterer = clusterer
		}
	}

	if r.needsFit && hasBounds {
		r.sdk.FitBounds(bounds)
		r.needsFit = false
	}
}

func (r *Renderer) newClusterer(markers []Marker) (c Clusterer, err error) {
	defer func() {
		if p := recover(); p != nil {
			c = nil
			err = fmt.Errorf("clusterer panic: %v", p)
		}
	}()

	c, err = r.sdk.NewClusterer(markers, ClustererOptions{
		Zoom:           r.zoom,
		GridSize:       GridSize(r.zoom),
		Icons:          ClusterIcons(r.zoom),
		MinClusterSize: 2,
	})
	if err == nil && c == nil {
		err = errors.New("clusterer constructor returned nil")
	}
	return c, err
}

func (r *Renderer) markerContent(ad *models.Ad) MarkerContent {
	if r.mode == ModeCluster {
		return MarkerContent{Kind: MarkerBadge, Badge: "1"}
	}

	price := "문의"
	if ad.Pricing.Monthly != nil {
		price = AbbreviatePrice(*ad.Pricing.Monthly)
	}
	return MarkerContent{
		Kind:     MarkerPriceTag,
		Category: ad.CategoryName(),
		Price:    price,
		Icon:     CategoryIcon(ad.CategoryName()),
	}
}

func (r *Renderer) handleClick(ad models.Ad, pos LatLng) {
	r.mu.Lock()
	if r.closed || r.sdk == nil {
		r.mu.Unlock()
		return
	}
	r.sdk.OpenInfoWindow(pos, &ad)
	cb := r.opts.OnMarkerClick
	r.mu.Unlock()

	if cb != nil {
		cb(ad)
	}
}
