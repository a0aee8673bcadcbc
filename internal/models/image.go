package models

import "time"

// AdImage is one image of an ad; Order defines the display sequence and is unique per ad.
type AdImage struct {
	ID        string    `json:"id"`
	AdID      int64     `json:"-"`
	URL       string    `json:"url"`
	ObjectKey string    `json:"-"`
	Alt       string    `json:"alt,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

type ReorderImagesRequest struct {
	ImageIDs []string `json:"image_ids" validate:"required,min=1,dive,uuid4"`
}
