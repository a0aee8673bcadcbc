package mapview

import (
	"context"

	"adboard/internal/models"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	SW LatLng `json:"sw"`
	NE LatLng `json:"ne"`
}

// Extend grows b to include p.
func (b Bounds) Extend(p LatLng) Bounds {
	if p.Lat < b.SW.Lat {
		b.SW.Lat = p.Lat
	}
	if p.Lng < b.SW.Lng {
		b.SW.Lng = p.Lng
	}
	if p.Lat > b.NE.Lat {
		b.NE.Lat = p.Lat
	}
	if p.Lng > b.NE.Lng {
		b.NE.Lng = p.Lng
	}
	return b
}

type MarkerKind string

const (
	// MarkerPriceTag is the two-row tag: category over abbreviated monthly price.
	MarkerPriceTag MarkerKind = "price-tag"
	// MarkerBadge is the numeric badge a lone marker shows while clustering.
	MarkerBadge MarkerKind = "badge"
)

type MarkerContent struct {
	Kind     MarkerKind `json:"kind"`
	Category string     `json:"category,omitempty"`
	Price    string     `json:"price,omitempty"`
	Icon     string     `json:"icon,omitempty"`
	Badge    string     `json:"badge,omitempty"`
}

type ClustererOptions struct {
	Zoom           int
	GridSize       int
	Icons          []ClusterIcon
	MinClusterSize int
}

// SDK is the subset of a map SDK and its clustering plugin the renderer drives.
type SDK interface {
	NewMarker(adID int64, pos LatLng, content MarkerContent) Marker
	// NewClusterer takes ownership of drawing markers. It may fail or panic.
	NewClusterer(markers []Marker, opts ClustererOptions) (Clusterer, error)
	FitBounds(b Bounds)
	OpenInfoWindow(pos LatLng, ad *models.Ad)
	CloseInfoWindow()
}

type Marker interface {
	AdID() int64
	Position() LatLng
	Attach()
	Detach()
	OnClick(fn func())
}

type Clusterer interface {
	Detach()
}

// Loader loads the SDK and its clustering plugin.
type Loader func(ctx context.Context) (SDK, error)

// StaticLoader returns a Loader for an SDK that is already available.
func StaticLoader(sdk SDK) Loader {
	return func(context.Context) (SDK, error) { return sdk, nil }
}
