package ranking

import (
	"fmt"
	"strings"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

const (
	maxExplanationParts = 3
	maxReasoningExcerpt = 100
	maxExplainedFiles   = 3

	defaultExplanation = "Relevant based on content analysis"
)

// explain builds a human-readable relevance explanation from at most three
// fragments, strongest signal first.
func explain(item *models.RankedItem, matchedFiles []string) string {
	var parts []string

	if a := item.Analysis; a != nil && a.RelevanceScore > 5 && a.Reasoning != "" {
		reasoning := a.Reasoning
		if len(reasoning) > maxReasoningExcerpt {
			reasoning = reasoning[:maxReasoningExcerpt]
		}
		parts = append(parts, fmt.Sprintf("LLM Analysis: %s...", reasoning))
	}

	if item.EvidenceScore > 3 {
		parts = append(parts, fmt.Sprintf("High evidence correlation (score: %.1f)", item.EvidenceScore))
	}

	files := matchedFiles
	if len(files) > maxExplainedFiles {
		files = files[:maxExplainedFiles]
	}
	for _, name := range files {
		parts = append(parts, fmt.Sprintf("Mentions forensic file: %s", name))
	}

	if item.SecurityScore > 6 {
		parts = append(parts, fmt.Sprintf("High security relevance (score: %g)", item.SecurityScore))
	}

	if item.BoostReason != "" {
		parts = append(parts, item.BoostReason)
	}

	if len(parts) == 0 {
		return defaultExplanation
	}
	if len(parts) > maxExplanationParts {
		parts = parts[:maxExplanationParts]
	}
	return strings.Join(parts, ". ")
}
