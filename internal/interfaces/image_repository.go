package interfaces

import (
	"context"
	"errors"

	"adboard/internal/models"
)

// ImageRepository stores image rows; the objects themselves live in the object store.
type ImageRepository interface {
	// Add inserts the image at the end of the ad's display sequence.
	Add(ctx context.Context, image *models.AdImage) error
	GetByID(ctx context.Context, adID int64, imageID string) (*models.AdImage, error)
	ListByAd(ctx context.Context, adID int64) ([]models.AdImage, error)
	Delete(ctx context.Context, adID int64, imageID string) error
	Reorder(ctx context.Context, adID int64, imageIDs []string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ErrImageSetMismatch is returned by Reorder when the given ids are not exactly the ad's images.
var ErrImageSetMismatch = errors.New("image ids do not match the ad's images")
