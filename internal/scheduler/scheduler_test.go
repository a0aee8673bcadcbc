package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/models"
	"adboard/internal/snapshot"
)

type stubRefresher struct {
	snap *snapshot.Snapshot
	err  error
}

func (r *stubRefresher) Refresh(ctx context.Context) (*snapshot.Snapshot, error) {
	return r.snap, r.err
}

type recordingIndex struct {
	interfaces.SearchIndex
	reindexed []models.Ad
	err       error
}

func (i *recordingIndex) Reindex(ctx context.Context, ads []models.Ad) error {
	i.reindexed = ads
	return i.err
}

func TestRunOnce(t *testing.T) {
	snap := &snapshot.Snapshot{Ads: []models.Ad{{ID: 1}, {ID: 2}}}
	idx := &recordingIndex{}
	s := New("0 3 * * *", &stubRefresher{snap: snap}, idx, logger.NewNop())

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Len(t, idx.reindexed, 2)
}

func TestRunOnce_RefreshFailureSkipsReindex(t *testing.T) {
	idx := &recordingIndex{}
	s := New("0 3 * * *", &stubRefresher{err: snapshot.ErrUnavailable}, idx, logger.NewNop())

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, snapshot.ErrUnavailable)
	assert.Nil(t, idx.reindexed)
}

func TestRunOnce_ReindexFailure(t *testing.T) {
	idx := &recordingIndex{err: errors.New("meilisearch down")}
	s := New("0 3 * * *", &stubRefresher{snap: &snapshot.Snapshot{}}, idx, logger.NewNop())

	assert.ErrorContains(t, s.RunOnce(context.Background()), "reindex ads")
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New("not a cron", &stubRefresher{}, nil, logger.NewNop())
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := New("@every 1h", &stubRefresher{snap: &snapshot.Snapshot{}}, nil, logger.NewNop())
	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
}
