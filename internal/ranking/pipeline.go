package ranking

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Nathan-Luevano/Sift/internal/analysis"
	"github.com/Nathan-Luevano/Sift/internal/config"
	"github.com/Nathan-Luevano/Sift/internal/metrics"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

const (
	securityBoost         = 1.5
	securityBoostFloor    = 5.0 // collector security score must exceed this
	securityEvidenceFloor = 3.0

	trustedDomainBoost = 1.0
	trustedBoostFloor  = 2.0 // evidence score must exceed this

	maxFinalScore = 10.0

	// maxScoredContent bounds per-item scoring work; collectors can return
	// arbitrarily large page extractions.
	maxScoredContent = 4000

	securityBoostReason = "High security relevance with evidence correlation"
	trustedBoostReason  = "Trusted security source"
)

// Pipeline applies quality thresholds, evidence scoring, boosts,
// deduplication, and top-N truncation to a pool of candidate OSINT items.
// The caller's pool is never mutated; annotations land on result copies.
type Pipeline struct {
	cfg      config.RankingConfig
	scorer   *EvidenceScorer
	analyzer *analysis.CachedAnalyzer // nil disables external relevance scoring
	logger   *slog.Logger
}

// NewPipeline builds a ranking pipeline from configuration. analyzer may be
// nil; items then rank on collector-supplied and evidence scores alone.
func NewPipeline(cfg config.RankingConfig, scorer *EvidenceScorer, analyzer *analysis.CachedAnalyzer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, scorer: scorer, analyzer: analyzer, logger: logger}
}

// Rank filters, scores, boosts, deduplicates, sorts, and truncates the pool.
// Output is deterministic for fixed inputs: re-ranking the pipeline's own
// output is a no-op.
func (p *Pipeline) Rank(ctx context.Context, pool []models.OsintItem, fc *models.ForensicContext) []models.RankedItem {
	start := time.Now()
	defer func() {
		metrics.RankDuration.Observe(time.Since(start).Seconds())
	}()

	// Per-item scoring is independent and read-only over shared input;
	// fan out on a bounded worker pool, keyed by index so input order is
	// preserved for first-occurrence dedup.
	scored := make([]*models.RankedItem, len(pool))
	matchedByIndex := make([][]string, len(pool))

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(pool) && len(pool) > 0 {
		workers = len(pool)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				scored[i], matchedByIndex[i] = p.scoreItem(ctx, &pool[i], fc)
			}
		}()
	}
	for i := range pool {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return nil
		}
	}
	close(indexes)
	wg.Wait()

	metrics.ItemsRanked.Add(float64(len(pool)))

	filtered := make([]models.RankedItem, 0, len(pool))
	for i := range scored {
		if scored[i] == nil {
			continue
		}
		item := scored[i]
		item.Explanation = explain(item, matchedByIndex[i])
		filtered = append(filtered, *item)
	}

	p.logger.Info("filtered OSINT pool",
		"input", len(pool), "kept", len(filtered), "min_score", p.cfg.MinRelevanceScore)

	unique := Deduplicate(filtered)

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].FinalScore != unique[j].FinalScore {
			return unique[i].FinalScore > unique[j].FinalScore
		}
		if unique[i].EvidenceScore != unique[j].EvidenceScore {
			return unique[i].EvidenceScore > unique[j].EvidenceScore
		}
		return unique[i].SecurityScore > unique[j].SecurityScore
	})

	if len(unique) > p.cfg.MaxResults {
		unique = unique[:p.cfg.MaxResults]
	}

	return unique
}

// scoreItem applies the quality filters and score blending to one item.
// It returns nil when the item is dropped.
func (p *Pipeline) scoreItem(ctx context.Context, item *models.OsintItem, fc *models.ForensicContext) (*models.RankedItem, []string) {
	if len(item.Content) < p.cfg.MinContentLength {
		metrics.ItemsFiltered.WithLabelValues("short_content").Inc()
		p.logger.Debug("filtering out short content", "url", item.URL, "length", len(item.Content))
		return nil, nil
	}

	ranked := &models.RankedItem{OsintItem: *item}
	if len(ranked.Content) > maxScoredContent {
		ranked.Content = ranked.Content[:maxScoredContent]
	}

	evidence, matchedFiles := p.scorer.Score(&ranked.OsintItem, fc)
	ranked.EvidenceScore = evidence

	// Favor whichever method is more confident.
	llmRelevance := item.RelevanceScore
	if item.Analysis != nil && item.Analysis.RelevanceScore > llmRelevance {
		llmRelevance = item.Analysis.RelevanceScore
	}
	if llmRelevance == 0 && p.analyzer != nil && fc != nil {
		result, err := p.analyzer.ScoreItemRelevance(ctx, item, fc)
		if err != nil {
			p.logger.Debug("external relevance scoring failed", "url", item.URL, "error", err)
		} else if result != nil {
			ranked.Analysis = result
			llmRelevance = result.RelevanceScore
		}
	}
	ranked.FinalScore = math.Max(llmRelevance, evidence)

	if ranked.FinalScore < p.cfg.MinRelevanceScore {
		metrics.ItemsFiltered.WithLabelValues("low_relevance").Inc()
		p.logger.Debug("filtering out low relevance content", "url", item.URL, "score", ranked.FinalScore)
		return nil, nil
	}

	if item.SecurityScore > securityBoostFloor && evidence > securityEvidenceFloor {
		ranked.FinalScore = math.Min(maxFinalScore, ranked.FinalScore+securityBoost)
		ranked.BoostReason = securityBoostReason
	}

	if evidence > trustedBoostFloor && domainMatches(item.Domain(), p.cfg.TrustedDomains) {
		ranked.FinalScore = math.Min(maxFinalScore, ranked.FinalScore+trustedDomainBoost)
		if ranked.BoostReason != "" {
			ranked.BoostReason += ". " + trustedBoostReason
		} else {
			ranked.BoostReason = trustedBoostReason
		}
	}

	return ranked, matchedFiles
}
