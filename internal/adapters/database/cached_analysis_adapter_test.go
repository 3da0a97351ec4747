package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
)

type stubCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string][]byte{}}
}

func (c *stubCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	data, ok := c.entries[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return data, nil
}

func (c *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

type stubAnalysisRepo struct {
	stored  *entities.TenderAnalysis
	getErr  error
	gets    int
	upserts int
}

func (r *stubAnalysisRepo) GetByUserAndTender(_ context.Context, _, _ string) (*entities.TenderAnalysis, error) {
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.stored, nil
}

func (r *stubAnalysisRepo) Upsert(_ context.Context, analysis *entities.TenderAnalysis) error {
	r.upserts++
	r.stored = analysis
	return nil
}

func sampleAnalysis() *entities.TenderAnalysis {
	return &entities.TenderAnalysis{
		ID:              "a1",
		UserID:          "u1",
		TenderID:        "t1",
		Summary:         "good fit",
		MatchPercentage: 82,
		Rating:          "high",
		ComputedAt:      time.Now().UTC().Truncate(time.Second),
	}
}

func testMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)
	return metrics
}

func TestCachedAdapter_GetServesHitWithoutBackend(t *testing.T) {
	cache := newStubCache()
	repo := &stubAnalysisRepo{}

	data, err := json.Marshal(sampleAnalysis())
	require.NoError(t, err)
	cache.entries[analysisCacheKey("u1", "t1")] = data

	adapter := NewCachedAnalysisAdapter(repo, cache, time.Minute, testMetrics(t))

	got, err := adapter.GetByUserAndTender(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "good fit", got.Summary)
	assert.Equal(t, 0, repo.gets, "a decodable cached copy must not reach Postgres")
}

func TestCachedAdapter_GetMissFallsThroughAndBackfills(t *testing.T) {
	cache := newStubCache()
	repo := &stubAnalysisRepo{stored: sampleAnalysis()}

	adapter := NewCachedAnalysisAdapter(repo, cache, time.Minute, testMetrics(t))

	got, err := adapter.GetByUserAndTender(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "good fit", got.Summary)
	assert.Equal(t, 1, repo.gets)
	assert.Equal(t, 1, cache.sets, "a miss should backfill the cache")
}

func TestCachedAdapter_UndecodableCachedCopyFallsThrough(t *testing.T) {
	cache := newStubCache()
	repo := &stubAnalysisRepo{stored: sampleAnalysis()}
	cache.entries[analysisCacheKey("u1", "t1")] = []byte("{not json")

	adapter := NewCachedAnalysisAdapter(repo, cache, time.Minute, testMetrics(t))

	got, err := adapter.GetByUserAndTender(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "good fit", got.Summary)
	assert.Equal(t, 1, repo.gets)
}

func TestCachedAdapter_UpsertWritesThroughAndRefreshes(t *testing.T) {
	cache := newStubCache()
	repo := &stubAnalysisRepo{}

	adapter := NewCachedAnalysisAdapter(repo, cache, time.Minute, testMetrics(t))

	require.NoError(t, adapter.Upsert(context.Background(), sampleAnalysis()))
	assert.Equal(t, 1, repo.upserts)

	cached, ok := cache.entries[analysisCacheKey("u1", "t1")]
	require.True(t, ok, "upsert must refresh the cached copy")
	var decoded entities.TenderAnalysis
	require.NoError(t, json.Unmarshal(cached, &decoded))
	assert.Equal(t, "good fit", decoded.Summary)
}

func TestCachedAdapter_NilMetricsIsSafe(t *testing.T) {
	cache := newStubCache()
	repo := &stubAnalysisRepo{stored: sampleAnalysis()}

	adapter := NewCachedAnalysisAdapter(repo, cache, time.Minute, nil)

	_, err := adapter.GetByUserAndTender(context.Background(), "u1", "t1")
	require.NoError(t, err)
	require.NoError(t, adapter.Upsert(context.Background(), sampleAnalysis()))
}
