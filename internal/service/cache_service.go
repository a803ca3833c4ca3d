package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-api/internal/repository"
)

// CacheRepository abstracts persistence for cached records.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Versions(ctx context.Context, keys ...string) (map[string]int64, error)
	Bump(ctx context.Context, keys ...string) error
	SetIfUnchanged(ctx context.Context, key string, value interface{}, ttl time.Duration, versions map[string]int64) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService is a read-through cache for teacher and course detail lookups.
// Cache failures are logged and never fail the request.
//
// A reader takes a Snapshot before its database read and fills through it, so
// a value read before a concurrent Invalidate is never written back.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get loads key into dest and reports whether the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	err := s.repo.Get(ctx, key, dest)
	if err != nil && !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	hit := err == nil
	s.metrics.RecordCacheLookup(hit)
	return hit
}

// CacheSnapshot records invalidation versions taken before a database read.
type CacheSnapshot struct {
	versions map[string]int64
}

// Snapshot captures the current versions of keys. The first key is the one
// that will be filled; the rest are parents whose invalidation also voids it.
func (s *CacheService) Snapshot(ctx context.Context, keys ...string) CacheSnapshot {
	if !s.Enabled() {
		return CacheSnapshot{}
	}
	versions, err := s.repo.Versions(ctx, keys...)
	if err != nil {
		s.logger.Warn("cache snapshot failed", zap.Strings("keys", keys), zap.Error(err))
		return CacheSnapshot{}
	}
	return CacheSnapshot{versions: versions}
}

// Fill stores value under key unless one of the snapshot keys was
// invalidated in the meantime.
func (s *CacheService) Fill(ctx context.Context, key string, value interface{}, snap CacheSnapshot) {
	if !s.Enabled() || snap.versions == nil {
		return
	}
	stored, err := s.repo.SetIfUnchanged(ctx, key, value, s.ttl, snap.versions)
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !stored {
		s.logger.Debug("cache fill skipped after invalidation", zap.String("key", key))
	}
}

// Invalidate bumps the version of each key and removes it.
func (s *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Bump(ctx, keys...); err != nil {
		s.logger.Warn("cache version bump failed", zap.Strings("keys", keys), zap.Error(err))
	}
	if err := s.repo.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidatePattern removes every key matching pattern.
func (s *CacheService) InvalidatePattern(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func teacherCacheKey(id int) string {
	return fmt.Sprintf("teacher:%d", id)
}

func courseCacheKey(teacherID, courseID int) string {
	return fmt.Sprintf("course:%d:%d", teacherID, courseID)
}

func courseCachePattern(teacherID int) string {
	return fmt.Sprintf("course:%d:*", teacherID)
}
