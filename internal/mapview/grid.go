package mapview

import "math"

const tileSize = 256.0

// worldPixel projects a position to Web Mercator pixel coordinates at zoom.
func worldPixel(p LatLng, zoom int) (x, y float64) {
	scale := tileSize * math.Exp2(float64(zoom))
	lat := math.Max(-85.05112878, math.Min(85.05112878, p.Lat))
	sin := math.Sin(lat * math.Pi / 180)

	x = (p.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}

type cell struct{ col, row int64 }

// Cluster is one group of markers sharing a grid cell.
type Cluster struct {
	Center LatLng  `json:"center"`
	Count  int     `json:"count"`
	Label  string  `json:"label"`
	Size   int     `json:"size"`
	AdIDs  []int64 `json:"ad_ids"`

	markers []Marker
}

// GridCluster groups markers by grid cell at zoom. Groups are returned in order
// of their first marker; a group's center is the mean of its member positions.
func GridCluster(markers []Marker, opts ClustererOptions) []Cluster {
	grid := float64(opts.GridSize)
	if grid <= 0 {
		grid = float64(GridSize(opts.Zoom))
	}
	icons := opts.Icons
	if len(icons) == 0 {
		icons = ClusterIcons(opts.Zoom)
	}

	index := make(map[cell]int)
	var clusters []Cluster
	var sums [][2]float64
	for _, m := range markers {
		x, y := worldPixel(m.Position(), opts.Zoom)
		key := cell{col: int64(math.Floor(x / grid)), row: int64(math.Floor(y / grid))}

		i, ok := index[key]
		if !ok {
			i = len(clusters)
			index[key] = i
			clusters = append(clusters, Cluster{})
			sums = append(sums, [2]float64{})
		}
		pos := m.Position()
		sums[i][0] += pos.Lat
		sums[i][1] += pos.Lng
		clusters[i].markers = append(clusters[i].markers, m)
		clusters[i].AdIDs = append(clusters[i].AdIDs, m.AdID())
	}

	for i := range clusters {
		n := len(clusters[i].markers)
		clusters[i].Count = n
		clusters[i].Center = LatLng{Lat: sums[i][0] / float64(n), Lng: sums[i][1] / float64(n)}
		clusters[i].Label = ClusterLabel(n)
		tier := IconTier(n)
		if tier < len(icons) {
			clusters[i].Size = icons[tier].Diameter
		}
	}
	return clusters
}
