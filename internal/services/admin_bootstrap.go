package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"adboard/internal/config"
	"adboard/internal/interfaces"
	"adboard/internal/models"
)

// EnsureAdmin creates the configured bootstrap admin unless an account with
// that email already exists. It reports whether an account was created.
// An empty email or password disables bootstrapping.
func EnsureAdmin(ctx context.Context, users interfaces.UserRepository, admin config.AdminConfig) (bool, error) {
	if admin.Email == "" || admin.Password == "" {
		return false, nil
	}

	_, err := users.GetByEmail(ctx, admin.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        admin.Email,
		Name:         admin.Name,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
