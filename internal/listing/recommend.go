package listing

import (
	"sort"

	"adboard/internal/models"
)

// Recommendation weights. Flags outweigh any realistic engagement difference.
const (
	WeightFeatured          = 1000.0
	WeightActive            = 500.0
	WeightVerified          = 100.0
	WeightViewCount         = 0.30
	WeightAverageDailyViews = 0.25
	WeightFavoriteCount     = 0.20
	WeightInquiryCount      = 0.15
)

// Score is the recommendation heuristic for a single ad.
func Score(ad *models.Ad) float64 {
	var score float64
	if ad.Featured {
		score += WeightFeatured
	}
	if ad.IsActive {
		score += WeightActive
	}
	if ad.Verified {
		score += WeightVerified
	}
	score += WeightViewCount * float64(ad.ViewCount)
	score += WeightAverageDailyViews * ad.AverageDailyViews()
	score += WeightFavoriteCount * float64(ad.FavoriteCount)
	score += WeightInquiryCount * float64(ad.InquiryCount)
	return score
}

// Recommend returns a copy of ads ordered by descending Score; ties keep input order.
func Recommend(ads []models.Ad) []models.Ad {
	scores := make([]float64, len(ads))
	order := make([]int, len(ads))
	for i := range ads {
		scores[i] = Score(&ads[i])
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	ranked := make([]models.Ad, len(ads))
	for i, idx := range order {
		ranked[i] = ads[idx]
	}
	return ranked
}
