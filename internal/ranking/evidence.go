// Package ranking scores a pool of candidate OSINT items against an
// investigation's forensic context, deduplicates near-identical content, and
// produces the top-N items an investigator should read first.
package ranking

import (
	"math"
	"regexp"
	"strings"

	"github.com/Nathan-Luevano/Sift/internal/keywords"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

// Additive evidence weights. Fixed design constants; tests pin exact scores.
const (
	fileNameMatchWeight    = 3.0
	securityKeywordWeight  = 1.0
	eventKeywordWeight     = 0.5
	locationTermWeight     = 1.5
	yearMatchWeight        = 1.0
	noteTermWeight         = 0.8
	credibleDomainBoost    = 0.5
	credibleBoostFloor     = 2.0
	maxEvidenceScore       = 10.0
	maxSuspiciousFiles     = 10
	maxNoteTerms           = 10
	minLocationTermLength  = 5
	minMatchableNameLength = 4
)

// evidenceSecurityKeywords signal incident coverage when the investigation
// touched security-relevant file types.
var evidenceSecurityKeywords = []string{
	"malware", "virus", "trojan", "exploit", "vulnerability",
	"attack", "breach", "compromise", "threat", "suspicious",
	"executable", "payload", "backdoor", "rootkit",
}

// securityFileTypes are the forensic file types that make security keyword
// matches meaningful.
var securityFileTypes = map[string]struct{}{
	"file": {}, "executable": {}, "script": {}, "registry": {}, "log": {},
}

// eventTypeKeywords maps forensic event types to content terms that describe
// the same kind of activity.
var eventTypeKeywords = map[string][]string{
	"modified": {"change", "modify", "alter", "update", "edit"},
	"created":  {"create", "new", "generate", "install"},
	"accessed": {"access", "open", "read", "view"},
	"deleted":  {"delete", "remove", "erase", "clean"},
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// EvidenceScorer rates how strongly one OSINT item matches an aggregated
// forensic context, independent of any single event. Scores are additive and
// capped at 10; absent context fields contribute nothing.
type EvidenceScorer struct {
	credibleDomains []string
}

// NewEvidenceScorer creates a scorer. credibleDomains earn a small boost for
// items that are already scoring as relevant.
func NewEvidenceScorer(credibleDomains []string) *EvidenceScorer {
	return &EvidenceScorer{credibleDomains: credibleDomains}
}

// Score returns the item's [0,10] evidence relevance plus the forensic
// filenames it mentions, for explanation generation. Malformed or missing
// fields never raise; they simply score zero.
func (s *EvidenceScorer) Score(item *models.OsintItem, fc *models.ForensicContext) (float64, []string) {
	if fc == nil {
		return 0, nil
	}

	content := strings.ToLower(item.Content)
	title := strings.ToLower(item.Title)

	score := 0.0
	var matchedFiles []string

	// Direct filename matches are the strongest evidence signal.
	suspicious := fc.SuspiciousFiles
	if len(suspicious) > maxSuspiciousFiles {
		suspicious = suspicious[:maxSuspiciousFiles]
	}
	for _, path := range suspicious {
		name := baseName(path)
		if len(name) < minMatchableNameLength {
			continue
		}
		if strings.Contains(content, name) || strings.Contains(title, name) {
			score += fileNameMatchWeight
			matchedFiles = append(matchedFiles, name)
		}
	}

	if hasSecurityFileTypes(fc.FileTypes) {
		for _, kw := range evidenceSecurityKeywords {
			if strings.Contains(content, kw) {
				score += securityKeywordWeight
			}
		}
	}

	for _, eventType := range fc.EventTypes {
		for _, kw := range eventTypeKeywords[eventType] {
			if strings.Contains(content, kw) {
				score += eventKeywordWeight
			}
		}
	}

	if len(fc.Location) > 3 {
		for _, term := range strings.Fields(strings.ToLower(fc.Location)) {
			if len(term) >= minLocationTermLength && strings.Contains(content, term) {
				score += locationTermWeight
			}
		}
	}

	for _, year := range yearPattern.FindAllString(fc.Timeframe, -1) {
		if strings.Contains(content, year) {
			score += yearMatchWeight
		}
	}

	for _, term := range keywords.NoteTerms(fc.ContextNotes, maxNoteTerms) {
		if strings.Contains(content, term) {
			score += noteTermWeight
		}
	}

	// Credible sources only amplify items that already look relevant.
	if score > credibleBoostFloor && domainMatches(item.Domain(), s.credibleDomains) {
		score += credibleDomainBoost
	}

	return math.Min(score, maxEvidenceScore), matchedFiles
}

func baseName(path string) string {
	path = strings.ToLower(path)
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func hasSecurityFileTypes(fileTypes []string) bool {
	for _, ft := range fileTypes {
		if _, ok := securityFileTypes[strings.ToLower(ft)]; ok {
			return true
		}
	}
	return false
}

func domainMatches(domain string, candidates []string) bool {
	if domain == "" {
		return false
	}
	for _, c := range candidates {
		if strings.Contains(domain, c) {
			return true
		}
	}
	return false
}
