package listing

import (
	"math/rand"
	"strconv"
	"time"

	"adboard/internal/models"
)

func price(v int64) *int64 { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// sampleAds is a small catalogue with one Gangnam and one Hongdae placement.
func sampleAds() []models.Ad {
	return []models.Ad{
		{
			ID:          1,
			Title:       "강남역 LED 전광판",
			Description: "유동인구가 많은 강남역 11번 출구 앞",
			CategoryID:  1,
			Category:    &models.CategoryRef{ID: 1, Name: "LED"},
			DistrictID:  10,
			District:    &models.DistrictRef{ID: 10, Name: "강남구", City: "서울"},
			Location:    &models.Location{Address: "서울 강남구 강남대로 396"},
			Pricing:     models.Pricing{Monthly: price(3000000)},
			CreatedAt:   day("2024-01-01"),
		},
		{
			ID:          2,
			Title:       "홍대입구 버스쉘터",
			Description: "Bus shelter near Hongik University",
			CategoryID:  2,
			Category:    &models.CategoryRef{ID: 2, Name: "버스"},
			DistrictID:  20,
			District:    &models.DistrictRef{ID: 20, Name: "마포구", City: "서울"},
			Location:    &models.Location{Address: "서울 마포구 양화로 160"},
			Pricing:     models.Pricing{Monthly: price(800000)},
			CreatedAt:   day("2024-01-02"),
		},
	}
}

var searchTerms = []string{"", "강남", "bus", "BUS", "마포", "서울", "없는단어", "1", "LED"}

// randomAds builds n ads with overlapping prices, categories and timestamps so ties are common.
func randomAds(r *rand.Rand, n int) []models.Ad {
	words := []string{"강남", "홍대", "LED", "Billboard", "버스", "지하철", "옥외", "bus stop"}
	ads := make([]models.Ad, n)
	for i := range ads {
		ad := models.Ad{
			ID:            int64(i + 1),
			Title:         words[r.Intn(len(words))] + " " + strconv.Itoa(r.Intn(5)),
			Description:   words[r.Intn(len(words))],
			CategoryID:    int64(r.Intn(3) + 1),
			DistrictID:    int64(r.Intn(3) + 1),
			District:      &models.DistrictRef{Name: words[r.Intn(len(words))]},
			CreatedAt:     day("2024-01-01").Add(time.Duration(r.Intn(5)) * 24 * time.Hour),
			Featured:      r.Intn(4) == 0,
			Verified:      r.Intn(3) == 0,
			IsActive:      r.Intn(2) == 0,
			ViewCount:     int64(r.Intn(1000)),
			FavoriteCount: int64(r.Intn(50)),
			InquiryCount:  int64(r.Intn(20)),
		}
		if r.Intn(5) != 0 {
			ad.Pricing.Monthly = price(int64(r.Intn(10)) * 500000)
		}
		if r.Intn(4) != 0 {
			ad.Location = &models.Location{Address: "서울 " + words[r.Intn(len(words))] + "로"}
		}
		ads[i] = ad
	}
	return ads
}
