package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nathan-Luevano/Sift/internal/metrics"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

// Cache memoizes analysis results by item identity so repeated scoring of
// the same item within a run does not re-request the service. This replaces
// the old pattern of stashing the result on the scored item itself, which
// aliased caller-owned data under concurrency.
type Cache interface {
	Get(ctx context.Context, key string) (*models.AnalysisResult, bool)
	Set(ctx context.Context, key string, result *models.AnalysisResult)
}

// MemoryCache is an in-process Cache safe for concurrent use. Scoring calls
// own one per run; nothing persists across runs.
type MemoryCache struct {
	mu      sync.RWMutex
	results map[string]*models.AnalysisResult
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{results: make(map[string]*models.AnalysisResult)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.AnalysisResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[key]
	return r, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, result *models.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = result
}

// RedisCache is a Cache backed by Redis with a TTL, shared across instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at the given URL and verifies the
// connection before returning.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func redisKey(key string) string {
	return "sift:analysis:" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.AnalysisResult, bool) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result *models.AnalysisResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	// Best effort; a failed write just means a re-request later.
	c.client.Set(ctx, redisKey(key), data, c.ttl)
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedAnalyzer wraps an Analyzer with a Cache keyed by item identity.
type CachedAnalyzer struct {
	inner Analyzer
	cache Cache
}

// NewCachedAnalyzer memoizes inner through cache.
func NewCachedAnalyzer(inner Analyzer, cache Cache) *CachedAnalyzer {
	return &CachedAnalyzer{inner: inner, cache: cache}
}

// AnalyzeItem scores the correlation between event and item, consulting the
// cache first. Service failures are returned as-is so callers can fall back.
func (a *CachedAnalyzer) AnalyzeItem(ctx context.Context, event *models.ForensicEvent, item *models.OsintItem) (*models.AnalysisResult, error) {
	return a.cached(ctx, "corr:"+ItemKey(item), func() (*models.AnalysisResult, error) {
		return a.inner.AnalyzeCorrelation(ctx, event, item.Content)
	})
}

// ScoreItemRelevance rates item against the forensic context, consulting the
// cache first. Correlation and relevance results are cached independently.
func (a *CachedAnalyzer) ScoreItemRelevance(ctx context.Context, item *models.OsintItem, fc *models.ForensicContext) (*models.AnalysisResult, error) {
	return a.cached(ctx, "rel:"+ItemKey(item), func() (*models.AnalysisResult, error) {
		return a.inner.ScoreRelevance(ctx, item.Content, fc)
	})
}

func (a *CachedAnalyzer) cached(ctx context.Context, key string, call func() (*models.AnalysisResult, error)) (*models.AnalysisResult, error) {
	if result, ok := a.cache.Get(ctx, key); ok {
		metrics.AnalysisCacheHits.Inc()
		return result, nil
	}
	metrics.AnalysisCacheMisses.Inc()

	metrics.AnalyzerCalls.Inc()
	result, err := call()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.AnalyzerTimeouts.Inc()
		}
		metrics.AnalyzerErrors.Inc()
		return nil, err
	}
	if result != nil {
		a.cache.Set(ctx, key, result)
	}
	return result, nil
}
