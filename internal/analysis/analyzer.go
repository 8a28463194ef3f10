// Package analysis talks to the external text-analysis service and caches
// its structured output. The service is an optional collaborator: every
// failure path degrades to "service unavailable" so local deterministic
// scoring can take over.
package analysis

import (
	"context"

	"github.com/Nathan-Luevano/Sift/internal/keywords"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

// Analyzer produces structured scores for forensic/OSINT text pairs. A nil
// result with a nil error means the service declined to answer; callers fall
// back to local scoring either way.
type Analyzer interface {
	// AnalyzeCorrelation rates the correlation potential between a forensic
	// event and OSINT content on a 0-10 scale.
	AnalyzeCorrelation(ctx context.Context, event *models.ForensicEvent, content string) (*models.AnalysisResult, error)

	// ScoreRelevance rates how relevant OSINT content is to an aggregated
	// forensic context on a 0-10 scale.
	ScoreRelevance(ctx context.Context, content string, fc *models.ForensicContext) (*models.AnalysisResult, error)
}

// ItemKey derives the memoization key for an OSINT item: the URL when
// present, otherwise the order-independent content fingerprint.
func ItemKey(item *models.OsintItem) string {
	if item.URL != "" {
		return item.URL
	}
	return keywords.Fingerprint(item.Content)
}
