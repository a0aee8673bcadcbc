package interfaces

import (
	"context"

	"adboard/internal/models"
)

// SearchIndex is the full-text index over published ads.
type SearchIndex interface {
	EnsureIndex(ctx context.Context) error
	IndexAds(ctx context.Context, ads []models.Ad) error
	Reindex(ctx context.Context, ads []models.Ad) error
	DeleteAd(ctx context.Context, id int64) error
	// Search returns matching ad ids ordered by relevance.
	Search(ctx context.Context, query string, limit int64) ([]int64, error)
}
