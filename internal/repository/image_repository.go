package repository

import (
	"context"
	"database/sql"
	"fmt"

	"adboard/internal/interfaces"
	"adboard/internal/models"
)

// reorderOffset moves every row out of the way of the (ad_id, sort_order) unique key while reordering.
const reorderOffset = 1000000

type imageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) interfaces.ImageRepository {
	return &imageRepository{db: db}
}

func scanImage(row rowScanner) (models.AdImage, error) {
	var img models.AdImage
	err := row.Scan(
		&img.ID,
		&img.AdID,
		&img.URL,
		&img.ObjectKey,
		&img.Alt,
		&img.Order,
		&img.CreatedAt,
	)
	return img, err
}

func (r *imageRepository) Add(ctx context.Context, image *models.AdImage) error {
	query := `
		INSERT INTO ad_images (id, ad_id, url, object_key, alt, sort_order)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(sort_order), -1) + 1 FROM ad_images WHERE ad_id = $2))
		RETURNING sort_order, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		image.ID,
		image.AdID,
		image.URL,
		image.ObjectKey,
		image.Alt,
	).Scan(&image.Order, &image.CreatedAt)
	if err != nil {
		return fmt.Errorf("add ad image: %w", err)
	}
	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, adID int64, imageID string) (*models.AdImage, error) {
	query := `
		SELECT id, ad_id, url, object_key, alt, sort_order, created_at
		FROM ad_images
		WHERE id = $1 AND ad_id = $2
	`

	img, err := scanImage(r.db.QueryRowContext(ctx, query, imageID, adID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get ad image: %w", err)
	}
	return &img, nil
}

func (r *imageRepository) ListByAd(ctx context.Context, adID int64) ([]models.AdImage, error) {
	query := `
		SELECT id, ad_id, url, object_key, alt, sort_order, created_at
		FROM ad_images
		WHERE ad_id = $1
		ORDER BY sort_order
	`

	rows, err := r.db.QueryContext(ctx, query, adID)
	if err != nil {
		return nil, fmt.Errorf("list ad images: %w", err)
	}
	defer rows.Close()

	images := []models.AdImage{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *imageRepository) Delete(ctx context.Context, adID int64, imageID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM ad_images WHERE id = $1 AND ad_id = $2", imageID, adID)
	if err != nil {
		return fmt.Errorf("delete ad image: %w", err)
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

// Reorder assigns sort_order 0..n-1 following imageIDs, which must name every image of the ad exactly once.
func (r *imageRepository) Reorder(ctx context.Context, adID int64, imageIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM ad_images WHERE ad_id = $1 FOR UPDATE", adID)
	if err != nil {
		return fmt.Errorf("lock ad images: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan ad image id: %w", err)
		}
		existing[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ad image ids: %w", err)
	}

	if len(existing) != len(imageIDs) {
		return interfaces.ErrImageSetMismatch
	}
	seen := make(map[string]bool, len(imageIDs))
	for _, id := range imageIDs {
		if !existing[id] || seen[id] {
			return interfaces.ErrImageSetMismatch
		}
		seen[id] = true
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE ad_images SET sort_order = sort_order + $1 WHERE ad_id = $2",
		reorderOffset, adID,
	); err != nil {
		return fmt.Errorf("shift image order: %w", err)
	}

	for i, id := range imageIDs {
		if _, err := tx.ExecContext(ctx,
			"UPDATE ad_images SET sort_order = $1 WHERE id = $2 AND ad_id = $3",
			i, id, adID,
		); err != nil {
			return fmt.Errorf("set image order: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE ads SET updated_at = NOW() WHERE id = $1", adID); err != nil {
		return fmt.Errorf("touch ad: %w", err)
	}

	return tx.Commit()
}
