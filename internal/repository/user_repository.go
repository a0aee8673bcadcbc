package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"adboard/internal/interfaces"
	"adboard/internal/models"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) interfaces.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, strings.ToLower(user.Email), user.Name, user.Role, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail matches case-insensitively; emails are stored lower-cased.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) getOne(ctx context.Context, where string, arg string) (*models.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at
		FROM users
		WHERE ` + where

	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
