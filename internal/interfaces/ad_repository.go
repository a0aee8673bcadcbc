package interfaces

import (
	"context"

	"adboard/internal/models"
)

// AdRepository defines the interface for ad data operations
type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id int64) (*models.Ad, error)
	GetBySlug(ctx context.Context, slug string) (*models.Ad, error)
	List(ctx context.Context, filter models.AdFilter) ([]*models.Ad, error)
	Count(ctx context.Context, filter models.AdFilter) (int, error)
	// ListPublished returns every non-draft ad with its category, district and images.
	ListPublished(ctx context.Context) ([]models.Ad, error)
	Update(ctx context.Context, id int64, req *models.UpdateAdRequest) error
	Delete(ctx context.Context, id int64) error
	IncrementCounter(ctx context.Context, id int64, counter models.Counter) (int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}
