package mapview

import (
	"sort"
	"sync"

	"adboard/internal/models"
)

// Plan is what a map would show: attached markers, drawn clusters and the fitted viewport.
type Plan struct {
	Zoom       int           `json:"zoom"`
	Mode       Mode          `json:"mode"`
	GridSize   int           `json:"grid_size,omitempty"`
	Icons      []ClusterIcon `json:"icons,omitempty"`
	Bounds     *Bounds       `json:"bounds,omitempty"`
	Markers    []PlanMarker  `json:"markers"`
	Clusters   []Cluster     `json:"clusters"`
	InfoWindow *PlanInfo     `json:"info_window,omitempty"`
	Degraded   bool          `json:"degraded"`
}

type PlanMarker struct {
	AdID     int64         `json:"ad_id"`
	Position LatLng        `json:"position"`
	Content  MarkerContent `json:"content"`
}

type PlanInfo struct {
	AdID     int64  `json:"ad_id"`
	Position LatLng `json:"position"`
}

// PlanSDK is an in-memory SDK that records overlays instead of drawing them,
// so the server can hand a ready render plan to thin clients.
type PlanSDK struct {
	mu         sync.Mutex
	markers    []*planMarker
	clusterers []*planClusterer
	bounds     *Bounds
	info       *PlanInfo
}

func NewPlanSDK() *PlanSDK {
	return &PlanSDK{}
}

func (s *PlanSDK) NewMarker(adID int64, pos LatLng, content MarkerContent) Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &planMarker{sdk: s, adID: adID, pos: pos, content: content}
	s.markers = append(s.markers, m)
	return m
}

func (s *PlanSDK) NewClusterer(markers []Marker, opts ClustererOptions) (Clusterer, error) {
	clusters := GridCluster(markers, opts)

	minSize := opts.MinClusterSize
	if minSize < 2 {
		minSize = 2
	}
	c := &planClusterer{sdk: s, opts: opts}
	for _, cl := range clusters {
		if cl.Count < minSize {
			// too small to cluster: the plugin draws the members themselves
			for _, m := range cl.markers {
				m.Attach()
				c.loose = append(c.loose, m)
			}
			continue
		}
		c.clusters = append(c.clusters, cl)
	}

	s.mu.Lock()
	s.clusterers = append(s.clusterers, c)
	s.mu.Unlock()
	return c, nil
}

func (s *PlanSDK) FitBounds(b Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = &b
}

func (s *PlanSDK) OpenInfoWindow(pos LatLng, ad *models.Ad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = &PlanInfo{AdID: ad.ID, Position: pos}
}

func (s *PlanSDK) CloseInfoWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = nil
}

// Plan snapshots the overlays currently on the map.
func (s *PlanSDK) Plan(zoom int) Plan {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Plan{
		Zoom:       zoom,
		Mode:       ModeFor(zoom),
		Markers:    []PlanMarker{},
		Clusters:   []Cluster{},
		Bounds:     s.bounds,
		InfoWindow: s.info,
	}
	if p.Mode == ModeCluster {
		p.GridSize = GridSize(zoom)
		p.Icons = ClusterIcons(zoom)
	}

	for _, m := range s.markers {
		if m.attached {
			p.Markers = append(p.Markers, PlanMarker{AdID: m.adID, Position: m.pos, Content: m.content})
		}
	}
	for _, c := range s.clusterers {
		if !c.detached {
			p.Clusters = append(p.Clusters, c.clusters...)
		}
	}
	sort.SliceStable(p.Clusters, func(i, j int) bool { return p.Clusters[i].Count > p.Clusters[j].Count })
	return p
}

// AttachedCount is the number of markers currently drawn on their own.
func (s *PlanSDK) AttachedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.markers {
		if m.attached {
			n++
		}
	}
	return n
}

// Click simulates a click on the attached marker for adID.
func (s *PlanSDK) Click(adID int64) bool {
	s.mu.Lock()
	var onClick func()
	for _, m := range s.markers {
		if m.adID == adID && m.attached {
			onClick = m.onClick
		}
	}
	s.mu.Unlock()

	if onClick == nil {
		return false
	}
	onClick()
	return true
}

type planMarker struct {
	sdk      *PlanSDK
	adID     int64
	pos      LatLng
	content  MarkerContent
	attached bool
	onClick  func()
}

func (m *planMarker) AdID() int64      { return m.adID }
func (m *planMarker) Position() LatLng { return m.pos }

func (m *planMarker) Attach() {
	m.sdk.mu.Lock()
	defer m.sdk.mu.Unlock()
	m.attached = true
}

func (m *planMarker) Detach() {
	m.sdk.mu.Lock()
	defer m.sdk.mu.Unlock()
	m.attached = false
}

func (m *planMarker) OnClick(fn func()) {
	m.sdk.mu.Lock()
	defer m.sdk.mu.Unlock()
	m.onClick = fn
}

type planClusterer struct {
	sdk      *PlanSDK
	opts     ClustererOptions
	clusters []Cluster
	loose    []Marker
	detached bool
}

func (c *planClusterer) Detach() {
	for _, m := range c.loose {
		m.Detach()
	}
	c.sdk.mu.Lock()
	defer c.sdk.mu.Unlock()
	c.detached = true
}
