package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/meilisearch/meilisearch-go"

	"adboard/internal/interfaces"
	"adboard/internal/models"
)

const (
	DefaultIndex = "ads"
	DefaultLimit = 20
	MaxLimit     = 100
)

var _ interfaces.SearchIndex = (*Client)(nil)

// Document is the indexed projection of an ad.
type Document struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	District    string   `json:"district"`
	Address     string   `json:"address"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	Monthly     *int64   `json:"monthly,omitempty"`
	Featured    bool     `json:"featured"`
}

func NewDocument(ad *models.Ad) Document {
	tags := ad.Tags
	if tags == nil {
		tags = []string{}
	}
	return Document{
		ID:          ad.ID,
		Slug:        ad.Slug,
		Title:       ad.Title,
		Description: ad.Description,
		Category:    ad.CategoryName(),
		District:    ad.DistrictName(),
		Address:     ad.Address(),
		Tags:        tags,
		Status:      string(ad.Status),
		Monthly:     ad.Pricing.Monthly,
		Featured:    ad.Featured,
	}
}

type Client struct {
	client *meilisearch.Client
	index  string
}

func NewClient(host, apiKey, index string) *Client {
	if index == "" {
		index = DefaultIndex
	}
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	return &Client{client: client, index: index}
}

// EnsureIndex creates the index and configures its attributes. Index creation
// is idempotent on the server side.
func (c *Client) EnsureIndex(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        c.index,
		PrimaryKey: "id",
	}); err != nil {
		return fmt.Errorf("create index %s: %w", c.index, err)
	}

	idx := c.client.Index(c.index)
	if _, err := idx.UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"district",
		"address",
		"category",
		"tags",
	}); err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}
	if _, err := idx.UpdateFilterableAttributes(&[]string{
		"category",
		"district",
		"status",
		"monthly",
		"featured",
	}); err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}
	return nil
}

func (c *Client) IndexAds(ctx context.Context, ads []models.Ad) error {
	if len(ads) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	docs := make([]Document, 0, len(ads))
	for i := range ads {
		if ads[i].Status == models.AdStatusDraft {
			continue
		}
		docs = append(docs, NewDocument(&ads[i]))
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := c.client.Index(c.index).AddDocuments(docs, "id"); err != nil {
		return fmt.Errorf("index ads: %w", err)
	}
	return nil
}

// Reindex replaces every document in the index with ads.
func (c *Client) Reindex(ctx context.Context, ads []models.Ad) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.client.Index(c.index).DeleteAllDocuments(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return c.IndexAds(ctx, ads)
}

func (c *Client) DeleteAd(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.client.Index(c.index).DeleteDocument(strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("delete ad %d from index: %w", id, err)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string, limit int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.client.Index(c.index).Search(query, &meilisearch.SearchRequest{
		Limit:                ClampLimit(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, fmt.Errorf("search ads: %w", err)
	}
	return hitIDs(res.Hits)
}

// ClampLimit maps non-positive limits to DefaultLimit and caps at MaxLimit.
func ClampLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

var errMalformedHit = errors.New("malformed search hit")

func hitIDs(hits []interface{}) ([]int64, error) {
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		m, ok := hit.(map[string]interface{})
		if !ok {
			return nil, errMalformedHit
		}
		switch v := m["id"].(type) {
		case float64:
			ids = append(ids, int64(v))
		case string:
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: id %q", errMalformedHit, v)
			}
			ids = append(ids, id)
		default:
			return nil, errMalformedHit
		}
	}
	return ids, nil
}
