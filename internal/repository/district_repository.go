package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"adboard/internal/interfaces"
	"adboard/internal/models"
)

type districtRepository struct {
	db *sql.DB
}

func NewDistrictRepository(db *sql.DB) interfaces.DistrictRepository {
	return &districtRepository{db: db}
}

func (r *districtRepository) Create(ctx context.Context, district *models.District) error {
	query := `INSERT INTO districts (name, city, description)
			  VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, district.Name, district.City, district.Description).Scan(
		&district.ID, &district.CreatedAt, &district.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create district: %w", err)
	}
	return nil
}

func (r *districtRepository) GetByID(ctx context.Context, id int64) (*models.District, error) {
	query := `SELECT d.id, d.name, d.city, d.description,
				COUNT(a.id) FILTER (WHERE a.status <> 'draft'),
				d.created_at, d.updated_at
			  FROM districts d
			  LEFT JOIN ads a ON a.district_id = d.id
			  WHERE d.id = $1
			  GROUP BY d.id`

	var d models.District
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.City, &d.Description, &d.AdCount, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get district by id: %w", err)
	}
	return &d, nil
}

func (r *districtRepository) List(ctx context.Context) ([]models.District, error) {
	query := `SELECT d.id, d.name, d.city, d.description,
				COUNT(a.id) FILTER (WHERE a.status <> 'draft'),
				d.created_at, d.updated_at
			  FROM districts d
			  LEFT JOIN ads a ON a.district_id = d.id
			  GROUP BY d.id
			  ORDER BY d.city, d.name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	districts := []models.District{}
	for rows.Next() {
		var d models.District
		if err := rows.Scan(&d.ID, &d.Name, &d.City, &d.Description, &d.AdCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}

func (r *districtRepository) Update(ctx context.Context, id int64, req *models.UpdateDistrictRequest) error {
	setValues := []string{}
	args := []interface{}{}
	argID := 1

	for _, field := range []struct {
		column string
		value  *string
	}{
		{"name", req.Name},
		{"city", req.City},
		{"description", req.Description},
	} {
		if field.value == nil {
			continue
		}
		setValues = append(setValues, fmt.Sprintf("%s = $%d", field.column, argID))
		args = append(args, *field.value)
		argID++
	}
	if len(setValues) == 0 {
		return fmt.Errorf("no fields to update")
	}

	setValues = append(setValues, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE districts SET %s WHERE id = $%d", strings.Join(setValues, ", "), argID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update district: %w", err)
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

func (r *districtRepository) Delete(ctx context.Context, id int64) error {
	var adCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ads WHERE district_id = $1`, id).Scan(&adCount); err != nil {
		return fmt.Errorf("check district references: %w", err)
	}
	if adCount > 0 {
		return &interfaces.DeletionBlockedError{
			Resource:   "district",
			References: map[string]int64{"ads": adCount},
		}
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM districts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete district: %w", err)
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
