package models

import (
	"net/url"
	"strings"
)

// ForensicEvent is a single timestamped filesystem activity record extracted
// from a disk image. Events are read-only inputs to the engine.
type ForensicEvent struct {
	Timestamp FlexTime          `json:"timestamp"`
	EventType string            `json:"event_type"`
	FilePath  string            `json:"file_path"`
	FileType  string            `json:"file_type,omitempty"`
	FileSize  int64             `json:"file_size,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// FileName returns the lower-cased basename of the event's file path.
func (e *ForensicEvent) FileName() string {
	path := strings.ToLower(e.FilePath)
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Engagement holds optional social engagement metrics on an OSINT item.
type Engagement struct {
	Likes    int `json:"likes,omitempty"`
	Shares   int `json:"shares,omitempty"`
	Comments int `json:"comments,omitempty"`
}

// AnalysisResult is the structured output of the external text-analysis
// service. Only the named fields are consumed; anything else the service
// returns is ignored. A nil result means the service was unavailable.
type AnalysisResult struct {
	CorrelationScore  float64 `json:"correlation_score"`
	RelevanceScore    float64 `json:"relevance_score"`
	SecurityRelevance float64 `json:"security_relevance"`
	Reasoning         string  `json:"reasoning,omitempty"`
}

// OsintItem is one piece of gathered intelligence: a social post, news
// article, or search result. Items are read-only inputs; ranking annotations
// live on RankedItem copies, never on the caller's pool.
type OsintItem struct {
	Timestamp   FlexTime          `json:"timestamp"`
	Source      string            `json:"source"`
	Content     string            `json:"content"`
	Title       string            `json:"title,omitempty"`
	URL         string            `json:"url,omitempty"`
	Coordinates *Coordinates      `json:"coordinates,omitempty"`
	Engagement  *Engagement       `json:"engagement,omitempty"`
	Data        map[string]string `json:"data,omitempty"`

	// Analysis is an externally computed structured score attached by the
	// collector, if any.
	Analysis *AnalysisResult `json:"analysis,omitempty"`

	// SecurityScore and RelevanceScore are collector-supplied 0-10 scores.
	SecurityScore  float64 `json:"security_score,omitempty"`
	RelevanceScore float64 `json:"relevance_score,omitempty"`
}

// Domain returns the item's source domain, preferring extraction metadata
// over the URL host.
func (i *OsintItem) Domain() string {
	if d, ok := i.Data["domain"]; ok && d != "" {
		return strings.ToLower(d)
	}
	if i.URL == "" {
		return ""
	}
	u, err := url.Parse(i.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ForensicContext summarizes a set of forensic events for pool-level
// relevance scoring. It is a per-run view built by the caller, not a
// persisted entity.
type ForensicContext struct {
	FileTypes       []string `json:"file_types"`
	SuspiciousFiles []string `json:"suspicious_files"`
	EventTypes      []string `json:"event_types"`
	Location        string   `json:"location"`
	Timeframe       string   `json:"timeframe"`
	ContextNotes    string   `json:"context_notes"`
}

// RankedItem is an OSINT item with the ranking annotations the pipeline
// attaches. The embedded item is a copy of the caller's input.
type RankedItem struct {
	OsintItem

	EvidenceScore float64 `json:"evidence_relevance_score"`
	FinalScore    float64 `json:"final_relevance_score"`
	Explanation   string  `json:"relevance_explanation"`
	BoostReason   string  `json:"boost_reason,omitempty"`
}
