package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("snapshot cache miss")

type Cache interface {
	Get(ctx context.Context) (*Snapshot, error)
	Set(ctx context.Context, snap *Snapshot) error
	Invalidate(ctx context.Context) error
}

const DefaultCacheKey = "adboard:snapshot:v1"

// RedisCache stores the snapshot as one JSON value so every API instance shares it.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, key: DefaultCacheKey, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (*Snapshot, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (c *RedisCache) Set(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}

type noCache struct{}

func (noCache) Get(context.Context) (*Snapshot, error) { return nil, ErrCacheMiss }
func (noCache) Set(context.Context, *Snapshot) error   { return nil }
func (noCache) Invalidate(context.Context) error       { return nil }

// NewRedisClient connects and pings with a 5 second timeout.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
