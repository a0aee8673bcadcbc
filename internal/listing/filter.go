// Package listing filters, orders, ranks and pages the in-memory ad snapshot.
// Every function here is pure: inputs are never mutated and results are fresh slices.
package listing

import (
	"errors"
	"strconv"
	"strings"

	"adboard/internal/models"
)

// FilterConfig is the public list query. Empty fields disable their filter.
type FilterConfig struct {
	Search     string
	Category   string
	District   string
	PriceRange string
	SortBy     SortKey
}

// PriceRange is an inclusive monthly price bound. Max is ignored unless HasMax.
type PriceRange struct {
	Min    float64
	Max    float64
	HasMax bool
}

var ErrInvalidPriceRange = errors.New("invalid price range")

// ParsePriceRange parses "min-max" or "min-". It reports ok=false for the
// empty string, which means no price filter.
func ParsePriceRange(s string) (r PriceRange, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriceRange{}, false, nil
	}

	minPart, maxPart, found := strings.Cut(s, "-")
	if !found {
		return PriceRange{}, false, ErrInvalidPriceRange
	}
	minPart = strings.TrimSpace(minPart)
	maxPart = strings.TrimSpace(maxPart)

	if minPart != "" {
		if r.Min, err = strconv.ParseFloat(minPart, 64); err != nil || r.Min < 0 {
			return PriceRange{}, false, ErrInvalidPriceRange
		}
	}
	if maxPart != "" {
		if r.Max, err = strconv.ParseFloat(maxPart, 64); err != nil {
			return PriceRange{}, false, ErrInvalidPriceRange
		}
		if r.Max < r.Min {
			return PriceRange{}, false, ErrInvalidPriceRange
		}
		r.HasMax = true
	}
	return r, true, nil
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return !r.HasMax || price <= r.Max
}

// Filter returns the ads that satisfy every active filter in cfg, in input order.
// A price range that does not parse, including an inverted one, matches nothing.
func Filter(ads []models.Ad, cfg FilterConfig) []models.Ad {
	m := newMatcher(cfg)

	filtered := make([]models.Ad, 0, len(ads))
	for _, ad := range ads {
		if m.matches(&ad) {
			filtered = append(filtered, ad)
		}
	}
	return filtered
}

type matcher struct {
	search   string
	category string
	district string
	price    PriceRange
	usePrice bool
	none     bool
}

func newMatcher(cfg FilterConfig) matcher {
	m := matcher{
		search:   strings.ToLower(cfg.Search),
		category: cfg.Category,
		district: cfg.District,
	}
	r, ok, err := ParsePriceRange(cfg.PriceRange)
	switch {
	case err != nil:
		m.none = true
	case ok:
		m.price = r
		m.usePrice = true
	}
	return m
}

func (m matcher) matches(ad *models.Ad) bool {
	if m.none {
		return false
	}
	if m.search != "" && !matchesSearch(ad, m.search) {
		return false
	}
	if m.category != "" && strconv.FormatInt(ad.CategoryID, 10) != m.category {
		return false
	}
	if m.district != "" && strconv.FormatInt(ad.DistrictID, 10) != m.district {
		return false
	}
	if m.usePrice {
		// an ad without a monthly price never satisfies a price filter
		if ad.Pricing.Monthly == nil || !m.price.Contains(float64(*ad.Pricing.Monthly)) {
			return false
		}
	}
	return true
}

// matchesSearch expects term to be lower-cased already.
func matchesSearch(ad *models.Ad, term string) bool {
	for _, field := range [...]string{ad.Title, ad.Description, ad.DistrictName(), ad.Address()} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply filters then sorts. The input slice is left untouched.
func Apply(ads []models.Ad, cfg FilterConfig) []models.Ad {
	return Sort(Filter(ads, cfg), cfg.SortBy)
}
