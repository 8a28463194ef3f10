package correlation

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/Nathan-Luevano/Sift/internal/analysis"
	"github.com/Nathan-Luevano/Sift/internal/keywords"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

// securityTerms in OSINT content suggest the item discusses an incident.
var securityTerms = []string{
	"malware", "virus", "trojan", "hack", "breach", "compromise",
	"attack", "exploit", "vulnerability", "threat", "incident",
}

// suspiciousLocations are path fragments where dropped or staged files tend
// to live.
var suspiciousLocations = []string{"temp", "cache", "download", "appdata", "roaming", "system32"}

// executableExtensions mark paths that name runnable artifacts.
var executableExtensions = []string{".exe", ".bat", ".cmd", ".ps1", ".vbs", ".jar", ".dll"}

// softwareTerms pair with executable paths.
var softwareTerms = []string{"software", "program", "application", "tool"}

// Scorer computes the [0,1] content relevance between one forensic event and
// one OSINT item. When an external analyzer is available its 0-10 rating is
// blended with the local heuristic; otherwise the heuristic stands alone.
type Scorer struct {
	analyzer *analysis.CachedAnalyzer // nil disables external analysis
	logger   *slog.Logger
}

// NewScorer creates a content relevance scorer. analyzer may be nil.
func NewScorer(analyzer *analysis.CachedAnalyzer, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{analyzer: analyzer, logger: logger}
}

// Score blends the external correlation rating with the local heuristic,
// trusting the external signal more but never ignoring the basics. Analyzer
// failure falls back to the heuristic alone.
func (s *Scorer) Score(ctx context.Context, event *models.ForensicEvent, item *models.OsintItem) float64 {
	if s.analyzer != nil {
		result, err := s.analyzer.AnalyzeItem(ctx, event, item)
		if err != nil {
			s.logger.Debug("external correlation analysis failed", "url", item.URL, "error", err)
		} else if result != nil {
			llmScore := result.CorrelationScore / 10.0
			traditional := TraditionalScore(event, item)
			return math.Min(llmScore*0.7+traditional*0.3, 1.0)
		}
	}

	return TraditionalScore(event, item)
}

// TraditionalScore is the deterministic text-matching heuristic. The weights
// are fixed design constants; tests pin exact values.
func TraditionalScore(event *models.ForensicEvent, item *models.OsintItem) float64 {
	score := 0.0

	path := strings.ToLower(event.FilePath)
	content := strings.ToLower(item.Content)

	if name := event.FileName(); len(name) > 3 && strings.Contains(content, name) {
		score += 0.8
	}

	common := keywords.Intersect(keywords.PathKeywords(path), contentKeywordSet(content))
	if common > 0 {
		score += math.Min(0.6, float64(common)*0.1)
	}

	if containsAny(content, securityTerms) && containsAny(path, suspiciousLocations) {
		score += 0.4
	}

	if containsAny(path, executableExtensions) && containsAny(content, softwareTerms) {
		score += 0.3
	}

	return math.Min(score, 1.0)
}

func contentKeywordSet(content string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, kw := range keywords.ContentKeywords(content) {
		set[kw] = struct{}{}
	}
	return set
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
