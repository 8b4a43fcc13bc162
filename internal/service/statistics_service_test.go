package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
)

type mockStatsBackend struct {
	clientCount    int
	sessionCount   int
	reviewCount    int
	reviewSince    time.Time
	clientCountErr error
}

func (m *mockStatsBackend) CountByPractitioner(ctx context.Context, practitionerID int64) (int, error) {
	if m.clientCountErr != nil {
		return 0, m.clientCountErr
	}
	return m.clientCount, nil
}

func (m *mockStatsBackend) CountActiveByPractitioner(ctx context.Context, practitionerID int64, now time.Time) (int, error) {
	return m.sessionCount, nil
}

func (m *mockStatsBackend) CountPendingReviews(ctx context.Context, practitionerID int64, since time.Time) (int, error) {
	m.reviewSince = since
	return m.reviewCount, nil
}

type fakeStatsCache struct {
	values  map[string][]byte
	sets    int
	deletes []string
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{values: map[string][]byte{}}
}

func (f *fakeStatsCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := f.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeStatsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = data
	f.sets++
	return nil
}

func (f *fakeStatsCache) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	f.deletes = append(f.deletes, key)
	return nil
}

func TestStatisticsGetComputesAndCaches(t *testing.T) {
	backend := &mockStatsBackend{clientCount: 8, sessionCount: 3, reviewCount: 12}
	cache := newFakeStatsCache()
	svc := NewStatisticsService(backend, backend, backend, cache, time.Minute, nil)

	stats, cached, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, &models.Statistics{TotalClients: 8, ActiveSessions: 3, PendingReviews: 12}, stats)
	assert.Equal(t, 1, cache.sets)

	// Lookback window for pending reviews is seven days.
	assert.WithinDuration(t, time.Now().Add(-7*24*time.Hour), backend.reviewSince, time.Minute)

	// Second call is served from cache even when the backend changes.
	backend.clientCount = 99
	stats, cached, err = svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 8, stats.TotalClients)
}

func TestStatisticsInvalidateDropsCache(t *testing.T) {
	backend := &mockStatsBackend{clientCount: 8}
	cache := newFakeStatsCache()
	svc := NewStatisticsService(backend, backend, backend, cache, time.Minute, nil)

	_, _, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	svc.Invalidate(context.Background(), 1)
	assert.Equal(t, []string{"stats:1"}, cache.deletes)

	backend.clientCount = 9
	stats, cached, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 9, stats.TotalClients)
}

func TestStatisticsGetBackendError(t *testing.T) {
	backend := &mockStatsBackend{clientCountErr: errors.New("db down")}
	svc := NewStatisticsService(backend, backend, backend, newFakeStatsCache(), time.Minute, nil)

	_, _, err := svc.Get(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}
