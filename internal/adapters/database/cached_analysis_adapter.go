package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/providers"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
)

// CachedAnalysisAdapter layers a Redis read-through cache over an
// AnalysisRepository. Postgres stays the source of truth; the Redis
// entry is refreshed on every upsert so a force-recomputed analysis is
// immediately visible. Cache hits, misses and the duration of
// fall-through Postgres operations are recorded on metrics.
type CachedAnalysisAdapter struct {
	adapter repositories.AnalysisRepository
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedAnalysisAdapter creates a new cached analysis adapter.
// metrics may be nil, in which case only the caching behavior remains.
func NewCachedAnalysisAdapter(adapter repositories.AnalysisRepository, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) repositories.AnalysisRepository {
	return &CachedAnalysisAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

func analysisCacheKey(userID, tenderID string) string {
	return fmt.Sprintf("analysis:%s:%s", userID, tenderID)
}

// GetByUserAndTender retrieves an analysis, preferring the Redis copy
func (a *CachedAnalysisAdapter) GetByUserAndTender(ctx context.Context, userID, tenderID string) (*entities.TenderAnalysis, error) {
	key := analysisCacheKey(userID, tenderID)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var analysis entities.TenderAnalysis
		if err := json.Unmarshal(cached, &analysis); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, key)
			return &analysis, nil
		}
		observability.LoggerFromContext(ctx).Warn().Str("key", key).Msg("discarding undecodable cached analysis")
	}
	observability.RecordCacheMiss(ctx, a.metrics, key)

	start := time.Now()
	analysis, err := a.adapter.GetByUserAndTender(ctx, userID, tenderID)
	observability.RecordDBMetric(ctx, a.metrics, "tender_analyses.select", time.Since(start))
	if err != nil {
		return nil, err
	}

	a.store(ctx, key, analysis)
	return analysis, nil
}

// Upsert writes through to Postgres and refreshes the Redis copy
func (a *CachedAnalysisAdapter) Upsert(ctx context.Context, analysis *entities.TenderAnalysis) error {
	start := time.Now()
	err := a.adapter.Upsert(ctx, analysis)
	observability.RecordDBMetric(ctx, a.metrics, "tender_analyses.upsert", time.Since(start))
	if err != nil {
		return err
	}
	a.store(ctx, analysisCacheKey(analysis.UserID, analysis.TenderID), analysis)
	return nil
}

func (a *CachedAnalysisAdapter) store(ctx context.Context, key string, analysis *entities.TenderAnalysis) {
	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Str("key", key).Err(err).Msg("failed to cache analysis")
	}
}
