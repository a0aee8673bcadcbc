package interfaces

import (
	"context"

	"adboard/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id int64, req *models.UpdateCategoryRequest) error
	Delete(ctx context.Context, id int64) error
}

type DistrictRepository interface {
	Create(ctx context.Context, district *models.District) error
	GetByID(ctx context.Context, id int64) (*models.District, error)
	List(ctx context.Context) ([]models.District, error)
	Update(ctx context.Context, id int64, req *models.UpdateDistrictRequest) error
	Delete(ctx context.Context, id int64) error
}
