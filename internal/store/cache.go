package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/keywordbot/internal/metrics"
)

// CachedStore wraps a KeywordStore with a Redis read-through cache.
// Only hits are cached. Lookups fill the cache with SETNX and Insert
// overwrites the entry after commit, so a slow lookup cannot put back a
// response that an Insert already replaced.
type CachedStore struct {
	KeywordStore
	cache  *RedisStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedStore creates a cached view over base.
func NewCachedStore(base KeywordStore, cache *RedisStore, logger zerolog.Logger) *CachedStore {
	return &CachedStore{KeywordStore: base, cache: cache, ttl: responseTTL, logger: logger}
}

// Lookup serves from Redis when possible and falls back to the base store.
// Cache failures are treated as misses.
func (s *CachedStore) Lookup(ctx context.Context, keyword string) (string, bool, error) {
	start := time.Now()
	resp, ok, err := s.cache.CachedResponse(ctx, keyword)
	if err != nil {
		s.logger.Warn().Err(err).Str("keyword", keyword).Msg("keyword cache read failed")
	} else if ok {
		metrics.StoreLatency.WithLabelValues("redis", "lookup").Observe(time.Since(start).Seconds())
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return resp, true, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	resp, ok, err = s.KeywordStore.Lookup(ctx, keyword)
	if err != nil || !ok {
		return resp, ok, err
	}
	if err := s.cache.CacheResponse(ctx, keyword, resp, s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("keyword", keyword).Msg("keyword cache fill failed")
	}
	return resp, true, nil
}

// Insert writes through to the base store and then replaces the cached
// entry. A cache write failure is returned because the old response would
// otherwise keep being served until it expires.
func (s *CachedStore) Insert(ctx context.Context, keyword, response string) error {
	if err := s.KeywordStore.Insert(ctx, keyword, response); err != nil {
		return err
	}
	if err := s.cache.SetResponse(ctx, keyword, response, s.ttl); err != nil {
		s.logger.Error().Err(err).Str("keyword", keyword).Msg("keyword cache update failed")
		return fmt.Errorf("saved, but cache update failed: %w", err)
	}
	return nil
}
