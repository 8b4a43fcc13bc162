package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
)

const pendingReviewWindow = 7 * 24 * time.Hour

type statsClientCounter interface {
	CountByPractitioner(ctx context.Context, practitionerID int64) (int, error)
}

type statsSessionCounter interface {
	CountActiveByPractitioner(ctx context.Context, practitionerID int64, now time.Time) (int, error)
}

type statsEntryCounter interface {
	CountPendingReviews(ctx context.Context, practitionerID int64, since time.Time) (int, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StatisticsService aggregates per-practitioner dashboard counts behind a
// short-lived cache.
type StatisticsService struct {
	clients  statsClientCounter
	sessions statsSessionCounter
	entries  statsEntryCounter
	cache    statsCache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatisticsService creates a new statistics service instance.
func NewStatisticsService(clients statsClientCounter, sessions statsSessionCounter, entries statsEntryCounter, cache statsCache, cacheTTL time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		clients:  clients,
		sessions: sessions,
		entries:  entries,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the practitioner's dashboard counts. The second return value
// reports whether the result came from cache.
func (s *StatisticsService) Get(ctx context.Context, practitionerID int64) (*models.Statistics, bool, error) {
	key := statsCacheKey(practitionerID)
	if s.cache != nil {
		var cached models.Statistics
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, true, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("statistics cache read failed", zap.Error(err), zap.Int64("practitioner_id", practitionerID))
		}
	}

	now := s.now().UTC()
	totalClients, err := s.clients.CountByPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count clients")
	}
	activeSessions, err := s.sessions.CountActiveByPractitioner(ctx, practitionerID, now)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	pendingReviews, err := s.entries.CountPendingReviews(ctx, practitionerID, now.Add(-pendingReviewWindow))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending reviews")
	}

	stats := &models.Statistics{
		TotalClients:   totalClients,
		ActiveSessions: activeSessions,
		PendingReviews: pendingReviews,
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, stats, s.cacheTTL); err != nil {
			s.logger.Warn("statistics cache write failed", zap.Error(err), zap.Int64("practitioner_id", practitionerID))
		}
	}
	return stats, false, nil
}

// Invalidate drops the cached counts after a mutation that affects them.
func (s *StatisticsService) Invalidate(ctx context.Context, practitionerID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey(practitionerID)); err != nil {
		s.logger.Warn("statistics cache invalidation failed", zap.Error(err), zap.Int64("practitioner_id", practitionerID))
	}
}

func statsCacheKey(practitionerID int64) string {
	return fmt.Sprintf("stats:%d", practitionerID)
}
