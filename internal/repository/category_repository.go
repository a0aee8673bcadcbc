package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"adboard/internal/interfaces"
	"adboard/internal/models"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) interfaces.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, category.Name, category.Description).Scan(
		&category.ID,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `
		SELECT c.id, c.name, c.description,
			COUNT(a.id) FILTER (WHERE a.status <> 'draft'),
			c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN ads a ON a.category_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.AdCount,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// List returns all categories by name; ad_count only counts published ads.
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name, c.description,
			COUNT(a.id) FILTER (WHERE a.status <> 'draft'),
			c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN ads a ON a.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.AdCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, id int64, req *models.UpdateCategoryRequest) error {
	setValues := []string{}
	args := []interface{}{}
	argID := 1

	if req.Name != nil {
		setValues = append(setValues, fmt.Sprintf("name = $%d", argID))
		args = append(args, *req.Name)
		argID++
	}
	if req.Description != nil {
		setValues = append(setValues, fmt.Sprintf("description = $%d", argID))
		args = append(args, *req.Description)
		argID++
	}
	if len(setValues) == 0 {
		return fmt.Errorf("no fields to update")
	}

	setValues = append(setValues, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE categories SET %s WHERE id = $%d",
		strings.Join(setValues, ", "),
		argID,
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	var adCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ads WHERE category_id = $1`, id).Scan(&adCount); err != nil {
		return fmt.Errorf("check category references: %w", err)
	}
	if adCount > 0 {
		return &interfaces.DeletionBlockedError{
			Resource:   "category",
			References: map[string]int64{"ads": adCount},
		}
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
