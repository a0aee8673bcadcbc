package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/snapshot"
)

// Refresher rebuilds the cached snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (*snapshot.Snapshot, error)
}

const jobTimeout = 10 * time.Minute

// Scheduler runs the nightly reindex: refresh the snapshot, then rebuild the
// search index from it.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	refresher Refresher
	index     interfaces.SearchIndex
	log       logger.Logger

	mu        sync.Mutex
	isRunning bool
}

func New(spec string, refresher Refresher, index interfaces.SearchIndex, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		spec:      spec,
		refresher: refresher,
		index:     index,
		log:       log.With(logger.String("component", "scheduler")),
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.log.Error("nightly reindex failed", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reindex %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.log.Info("scheduler started", logger.String("cron", s.spec))
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	snap, err := s.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}
	if s.index != nil {
		if err := s.index.Reindex(ctx, snap.Ads); err != nil {
			return fmt.Errorf("reindex ads: %w", err)
		}
	}
	s.log.Info("nightly reindex completed",
		logger.Int("ads", len(snap.Ads)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
