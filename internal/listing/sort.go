package listing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"adboard/internal/models"
)

type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
)

// MissingPrice is the monthly price assumed for ads without one, so they sort last ascending.
const MissingPrice int64 = 999999999

// ParseSortKey maps unknown values to SortRecent.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortRecent, SortPriceLow, SortPriceHigh, SortName:
		return k
	}
	return SortRecent
}

// Sort returns a stably sorted copy of ads.
func Sort(ads []models.Ad, key SortKey) []models.Ad {
	sorted := make([]models.Ad, len(ads))
	copy(sorted, ads)

	var less func(a, b *models.Ad) bool
	switch ParseSortKey(string(key)) {
	case SortPriceLow:
		less = func(a, b *models.Ad) bool { return monthlyPrice(a) < monthlyPrice(b) }
	case SortPriceHigh:
		less = func(a, b *models.Ad) bool { return monthlyPrice(a) > monthlyPrice(b) }
	case SortName:
		// collators keep internal buffers, so each sort gets its own
		c := collate.New(language.Korean)
		less = func(a, b *models.Ad) bool { return c.CompareString(a.Title, b.Title) < 0 }
	default:
		less = func(a, b *models.Ad) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j])
	})
	return sorted
}

func monthlyPrice(ad *models.Ad) int64 {
	if ad.Pricing.Monthly == nil {
		return MissingPrice
	}
	return *ad.Pricing.Monthly
}
