// Package snapshot materializes the read-only catalogue the public API serves:
// published ads with their categories and districts.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
	"adboard/internal/monitor"
)

// ErrUnavailable wraps any failure to build a snapshot.
var ErrUnavailable = errors.New("snapshot unavailable")

// LoadTimeout bounds a shared load. The load is detached from the request
// that started it, so one aborted client does not fail its waiters.
const LoadTimeout = 15 * time.Second

// Snapshot is immutable once built; callers must not modify its slices.
type Snapshot struct {
	Ads        []models.Ad       `json:"ads"`
	Categories []models.Category `json:"categories"`
	Districts  []models.District `json:"districts"`
	LoadedAt   time.Time         `json:"loaded_at"`
}

// FindAd looks an ad up by slug, or by numeric id when key is all digits.
func (s *Snapshot) FindAd(key string) (*models.Ad, bool) {
	for i := range s.Ads {
		if s.Ads[i].Slug == key {
			return &s.Ads[i], true
		}
	}
	for i := range s.Ads {
		if strconv.FormatInt(s.Ads[i].ID, 10) == key {
			return &s.Ads[i], true
		}
	}
	return nil, false
}

type Store struct {
	ads        interfaces.AdRepository
	categories interfaces.CategoryRepository
	districts  interfaces.DistrictRepository
	cache      Cache
	mon        monitor.Monitor
	log        logger.Logger
	loads      singleflight.Group
}

// NewStore builds a store. A nil cache disables caching.
func NewStore(
	ads interfaces.AdRepository,
	categories interfaces.CategoryRepository,
	districts interfaces.DistrictRepository,
	cache Cache,
	mon monitor.Monitor,
	log logger.Logger,
) *Store {
	if cache == nil {
		cache = noCache{}
	}
	return &Store{
		ads:        ads,
		categories: categories,
		districts:  districts,
		cache:      cache,
		mon:        mon,
		log:        log.With(logger.String("component", "snapshot")),
	}
}

// Get returns the cached snapshot, building and caching a fresh one on a miss.
// Concurrent misses share one build.
func (s *Store) Get(ctx context.Context) (*Snapshot, error) {
	snap, err := s.cache.Get(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn("snapshot cache read failed", logger.Error(err))
	}

	ch := s.loads.DoChan("snapshot", func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()
		return s.Refresh(lctx)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Refresh builds a snapshot from the database and stores it in the cache.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, snap); err != nil {
		s.log.Warn("snapshot cache write failed", logger.Error(err))
	}
	return snap, nil
}

// Load fetches ads, categories and districts in parallel. Any failure fails
// the whole load; there is no partial snapshot.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	var (
		ads        []models.Ad
		categories []models.Category
		districts  []models.District
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ads, err = s.ads.ListPublished(gctx)
		if err != nil {
			return fmt.Errorf("load ads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		districts, err = s.districts.List(gctx)
		if err != nil {
			return fmt.Errorf("load districts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("snapshot load failed", logger.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	elapsed := time.Since(start)
	s.mon.LogPerformanceMetric(ctx, "snapshot_load_seconds", elapsed.Seconds())
	s.log.Info("snapshot loaded",
		logger.Int("ads", len(ads)),
		logger.Int("categories", len(categories)),
		logger.Int("districts", len(districts)),
		logger.Duration("took", elapsed),
	)

	return &Snapshot{
		Ads:        nonNil(ads),
		Categories: nonNil(categories),
		Districts:  nonNil(districts),
		LoadedAt:   time.Now().UTC(),
	}, nil
}

// Invalidate drops the cached snapshot so the next Get rebuilds it.
func (s *Store) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
