package models

import "time"

// User is a back-office account. Only admins exist today.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	Name         string    `json:"name,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

const RoleAdmin = "admin"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role"`
}
