package cmd

import (
	"context"
	"fmt"

	"github.com/Nathan-Luevano/Sift/common/logging"
	"github.com/Nathan-Luevano/Sift/internal/analysis"
	"github.com/Nathan-Luevano/Sift/internal/config"
	"github.com/Nathan-Luevano/Sift/internal/correlation"
	"github.com/Nathan-Luevano/Sift/internal/geo"
	"github.com/Nathan-Luevano/Sift/internal/ranking"
)

// runtime holds the engine wiring shared by the serve, correlate, and rank
// commands.
type runtime struct {
	cfg      *config.Config
	logger   *logging.Logger
	engine   *correlation.Engine
	pipeline *ranking.Pipeline

	closers []func()
}

// buildRuntime loads configuration and assembles the scoring stack. The
// analyzer and its Redis cache are optional; everything degrades to local
// heuristics when they are disabled or unreachable.
func buildRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format).
		With(logging.Service("sift"))
	logging.SetDefault(logger)

	rt := &runtime{cfg: cfg, logger: logger}

	var cached *analysis.CachedAnalyzer
	if cfg.Analyzer.Enabled {
		var cache analysis.Cache
		if cfg.Cache.RedisEnabled {
			redisCache, err := analysis.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
			if err != nil {
				rt.Close()
				return nil, fmt.Errorf("connect analysis cache: %w", err)
			}
			rt.closers = append(rt.closers, func() { redisCache.Close() })
			cache = redisCache
		} else {
			cache = analysis.NewMemoryCache()
		}

		client := analysis.NewOllamaClient(cfg.Analyzer.URL, cfg.Analyzer.Model, cfg.Analyzer.Timeout, logger.Logger)
		cached = analysis.NewCachedAnalyzer(client, cache)
		logger.Info("external analyzer enabled", "url", cfg.Analyzer.URL, "model", cfg.Analyzer.Model)
	}

	scorer := correlation.NewScorer(cached, logger.Logger)
	geocoder := geo.NewStaticGeocoder(geo.DefaultTable)

	engine, err := correlation.NewEngine(cfg.Correlation, scorer, geocoder, logger.Logger)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("build correlation engine: %w", err)
	}
	rt.engine = engine

	rt.pipeline = ranking.NewPipeline(cfg.Ranking, ranking.NewEvidenceScorer(cfg.Ranking.CredibleDomains), cached, logger.Logger)

	return rt, nil
}

// Close releases runtime resources in reverse acquisition order.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}
