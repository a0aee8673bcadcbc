package models

import "time"

type District struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Description string    `json:"description,omitempty"`
	AdCount     int       `json:"ad_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateDistrictRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	City        string `json:"city" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateDistrictRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	City        *string `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
