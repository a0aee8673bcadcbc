package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"adboard/internal/interfaces"
	"adboard/internal/models"
)

const adColumns = `
	a.id, a.title, a.slug, a.description,
	a.category_id, c.name, a.district_id, d.name, d.city,
	a.location, a.specs, a.pricing, a.metadata,
	a.status, a.featured, a.verified, a.verified_at, a.tags,
	a.view_count, a.favorite_count, a.inquiry_count, a.is_active,
	a.created_at, a.updated_at`

const adJoins = `
	FROM ads a
	JOIN categories c ON c.id = a.category_id
	JOIN districts d ON d.id = a.district_id`

type adRepository struct {
	db *sql.DB
}

func NewAdRepository(db *sql.DB) interfaces.AdRepository {
	return &adRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAd(row rowScanner) (*models.Ad, error) {
	var (
		ad           models.Ad
		category     models.CategoryRef
		district     models.DistrictRef
		locationJSON []byte
		metadataJSON []byte
		status       string
		verifiedAt   sql.NullTime
	)
	err := row.Scan(
		&ad.ID, &ad.Title, &ad.Slug, &ad.Description,
		&ad.CategoryID, &category.Name, &ad.DistrictID, &district.Name, &district.City,
		&locationJSON, &ad.Specs, &ad.Pricing, &metadataJSON,
		&status, &ad.Featured, &ad.Verified, &verifiedAt, pq.Array(&ad.Tags),
		&ad.ViewCount, &ad.FavoriteCount, &ad.InquiryCount, &ad.IsActive,
		&ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(locationJSON) > 0 {
		ad.Location = &models.Location{}
		if err := json.Unmarshal(locationJSON, ad.Location); err != nil {
			return nil, fmt.Errorf("unmarshal location: %w", err)
		}
	}
	if len(metadataJSON) > 0 {
		ad.Metadata = &models.Metadata{}
		if err := json.Unmarshal(metadataJSON, ad.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	ad.Status = models.AdStatus(status)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		ad.VerifiedAt = &t
	}
	category.ID = ad.CategoryID
	district.ID = ad.DistrictID
	ad.Category = &category
	ad.District = &district
	if ad.Tags == nil {
		ad.Tags = []string{}
	}
	ad.Images = []models.AdImage{}
	return &ad, nil
}

func (r *adRepository) Create(ctx context.Context, ad *models.Ad) error {
	query := `
		INSERT INTO ads (
			title, slug, description, category_id, district_id,
			location, specs, pricing, metadata,
			status, featured, verified, verified_at, tags, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			CASE WHEN $12 THEN NOW() END, $13, $14)
		RETURNING id, view_count, favorite_count, inquiry_count, verified_at, created_at, updated_at
	`

	if ad.Tags == nil {
		ad.Tags = []string{}
	}

	var verifiedAt sql.NullTime
	err := r.db.QueryRowContext(
		ctx,
		query,
		ad.Title,
		ad.Slug,
		ad.Description,
		ad.CategoryID,
		ad.DistrictID,
		ad.Location,
		ad.Specs,
		ad.Pricing,
		ad.Metadata,
		string(ad.Status),
		ad.Featured,
		ad.Verified,
		pq.Array(ad.Tags),
		ad.IsActive,
	).Scan(
		&ad.ID,
		&ad.ViewCount,
		&ad.FavoriteCount,
		&ad.InquiryCount,
		&verifiedAt,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ad: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		ad.VerifiedAt = &t
	}
	return nil
}

func (r *adRepository) GetByID(ctx context.Context, id int64) (*models.Ad, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

func (r *adRepository) GetBySlug(ctx context.Context, slug string) (*models.Ad, error) {
	return r.getOne(ctx, "a.slug = $1", slug)
}

func (r *adRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Ad, error) {
	query := "SELECT " + adColumns + adJoins + " WHERE " + where

	ad, err := scanAd(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get ad: %w", err)
	}

	images, err := r.imagesFor(ctx, []int64{ad.ID})
	if err != nil {
		return nil, err
	}
	if imgs, ok := images[ad.ID]; ok {
		ad.Images = imgs
	}
	return ad, nil
}

func buildAdWhere(filter models.AdFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	argPos := 1

	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("a.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.CategoryID > 0 {
		clauses = append(clauses, fmt.Sprintf("a.category_id = $%d", argPos))
		args = append(args, filter.CategoryID)
		argPos++
	}
	if filter.DistrictID > 0 {
		clauses = append(clauses, fmt.Sprintf("a.district_id = $%d", argPos))
		args = append(args, filter.DistrictID)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *adRepository) List(ctx context.Context, filter models.AdFilter) ([]*models.Ad, error) {
	where, args := buildAdWhere(filter)
	query := "SELECT " + adColumns + adJoins + where + " ORDER BY a.created_at DESC, a.id DESC"

	argPos := len(args) + 1
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	ads := []*models.Ad{}
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ads: %w", err)
	}
	return ads, nil
}

func (r *adRepository) Count(ctx context.Context, filter models.AdFilter) (int, error) {
	where, args := buildAdWhere(filter)

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ads a"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ads: %w", err)
	}
	return count, nil
}

func (r *adRepository) ListPublished(ctx context.Context) ([]models.Ad, error) {
	query := "SELECT " + adColumns + adJoins + " WHERE a.status <> 'draft' ORDER BY a.created_at DESC, a.id DESC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list published ads: %w", err)
	}
	defer rows.Close()

	ads := []models.Ad{}
	var ids []int64
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		ads = append(ads, *ad)
		ids = append(ids, ad.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published ads: %w", err)
	}
	if len(ids) == 0 {
		return ads, nil
	}

	images, err := r.imagesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range ads {
		if imgs, ok := images[ads[i].ID]; ok {
			ads[i].Images = imgs
		}
	}
	return ads, nil
}

func (r *adRepository) imagesFor(ctx context.Context, adIDs []int64) (map[int64][]models.AdImage, error) {
	query := `
		SELECT id, ad_id, url, object_key, alt, sort_order, created_at
		FROM ad_images
		WHERE ad_id = ANY($1)
		ORDER BY ad_id, sort_order
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(adIDs))
	if err != nil {
		return nil, fmt.Errorf("list ad images: %w", err)
	}
	defer rows.Close()

	images := make(map[int64][]models.AdImage)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad image: %w", err)
		}
		images[img.AdID] = append(images[img.AdID], img)
	}
	return images, rows.Err()
}

func (r *adRepository) Update(ctx context.Context, id int64, req *models.UpdateAdRequest) error {
	setValues := []string{}
	args := []interface{}{}
	argID := 1

	set := func(column string, value interface{}) {
		setValues = append(setValues, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Slug != nil {
		set("slug", *req.Slug)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.CategoryID != nil {
		set("category_id", *req.CategoryID)
	}
	if req.DistrictID != nil {
		set("district_id", *req.DistrictID)
	}
	if req.Location != nil {
		set("location", *req.Location)
	}
	if req.Specs != nil {
		set("specs", *req.Specs)
	}
	if req.Pricing != nil {
		set("pricing", *req.Pricing)
	}
	if req.Metadata != nil {
		set("metadata", *req.Metadata)
	}
	if req.Status != nil {
		set("status", string(*req.Status))
	}
	if req.Featured != nil {
		set("featured", *req.Featured)
	}
	if req.Verified != nil {
		set("verified", *req.Verified)
		setValues = append(setValues, fmt.Sprintf(
			"verified_at = CASE WHEN $%d THEN COALESCE(verified_at, NOW()) ELSE NULL END", argID-1))
	}
	if req.Tags != nil {
		tags := *req.Tags
		if tags == nil {
			tags = []string{}
		}
		set("tags", pq.Array(tags))
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	if len(setValues) == 0 {
		return fmt.Errorf("no fields to update")
	}

	setValues = append(setValues, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE ads SET %s WHERE id = $%d",
		strings.Join(setValues, ", "),
		argID,
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update ad: %w", err)
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

func (r *adRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM ads WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete ad: %w", err)
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

// IncrementCounter bumps one engagement counter of a published ad and returns its new value.
func (r *adRepository) IncrementCounter(ctx context.Context, id int64, counter models.Counter) (int64, error) {
	column, ok := counter.Column()
	if !ok {
		return 0, fmt.Errorf("unknown counter %q", counter)
	}

	query := fmt.Sprintf(
		"UPDATE ads SET %[1]s = %[1]s + 1 WHERE id = $1 AND status <> 'draft' RETURNING %[1]s",
		column,
	)

	var value int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return 0, sql.ErrNoRows
		}
		return 0, fmt.Errorf("increment %s: %w", column, err)
	}
	return value, nil
}

func (r *adRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM ads WHERE slug = $1)", slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}
