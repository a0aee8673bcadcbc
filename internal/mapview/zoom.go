// Package mapview decides how the ad set is drawn on a map for a zoom level
// and drives a map SDK accordingly.
package mapview

import "math"

// ClusterMaxZoom is the deepest zoom that still clusters; deeper zooms draw one tag per ad.
const ClusterMaxZoom = 13

type Mode string

const (
	ModeCluster    Mode = "cluster"
	ModeIndividual Mode = "individual"
)

func ModeFor(zoom int) Mode {
	if zoom <= ClusterMaxZoom {
		return ModeCluster
	}
	return ModeIndividual
}

// GridSize is the clusterer grid cell edge in pixels.
func GridSize(zoom int) int {
	switch {
	case zoom <= 8:
		return 200
	case zoom <= 10:
		return 160
	case zoom == 11:
		return 120
	case zoom == 12:
		return 100
	case zoom == 13:
		return 80
	default:
		return 60
	}
}

// ClusterIcon is one size tier. A cluster uses the last tier whose MinCount it reaches.
type ClusterIcon struct {
	MinCount int `json:"min_count"`
	Diameter int `json:"diameter"`
}

var baseIcons = [...]ClusterIcon{
	{MinCount: 0, Diameter: 54},
	{MinCount: 10, Diameter: 64},
	{MinCount: 50, Diameter: 76},
	{MinCount: 100, Diameter: 90},
	{MinCount: 500, Diameter: 108},
}

// ClusterIcons returns the five tiers for zoom, shrunk by 10% for zooms 10 to 13.
func ClusterIcons(zoom int) []ClusterIcon {
	scale := 1.0
	if zoom >= 10 && zoom <= 13 {
		scale = 0.9
	}
	icons := make([]ClusterIcon, len(baseIcons))
	for i, icon := range baseIcons {
		icons[i] = ClusterIcon{
			MinCount: icon.MinCount,
			Diameter: int(math.Round(float64(icon.Diameter) * scale)),
		}
	}
	return icons
}

// IconTier returns the index into ClusterIcons for a cluster of count members.
func IconTier(count int) int {
	tier := 0
	for i, icon := range baseIcons {
		if count >= icon.MinCount {
			tier = i
		}
	}
	return tier
}
