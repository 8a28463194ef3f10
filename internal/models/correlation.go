package models

import "time"

// SpatialProximity is the great-circle distance between the investigation
// location and an OSINT item's coordinates. A nil value means no proximity
// could be computed, which is distinct from a zero distance.
type SpatialProximity struct {
	DistanceKM      float64 `json:"distance_km"`
	WithinThreshold bool    `json:"within_threshold"`
}

// CorrelationRecord pairs one forensic event with one OSINT item that falls
// inside the event's time window.
type CorrelationRecord struct {
	Item              *OsintItem        `json:"osint_item"`
	ItemTime          time.Time         `json:"item_timestamp"`
	TemporalProximity float64           `json:"temporal_proximity"` // hours, >= 0
	Spatial           *SpatialProximity `json:"spatial_proximity,omitempty"`
	ContentRelevance  float64           `json:"content_relevance"` // [0,1]
}

// EventCorrelation is the correlation result for a single forensic event:
// its qualifying OSINT records and the aggregated strength. Events with no
// qualifying records do not produce an EventCorrelation at all.
type EventCorrelation struct {
	Event     *ForensicEvent      `json:"forensic_event"`
	EventTime time.Time           `json:"event_timestamp"`
	Records   []CorrelationRecord `json:"osint_correlations"`
	Strength  float64             `json:"correlation_strength"` // [0,1]
}

// CorrelationResult is the output of one correlation run, sorted descending
// by strength. SkippedTimestamps counts inputs whose timestamps could not be
// parsed and were substituted with the current time.
type CorrelationResult struct {
	Correlations      []EventCorrelation `json:"correlations"`
	SkippedTimestamps int                `json:"skipped_timestamps"`
}

// ConfidenceDistribution buckets correlations by strength.
type ConfidenceDistribution struct {
	High   int `json:"high_confidence"`   // strength > 0.7
	Medium int `json:"medium_confidence"` // 0.4 < strength <= 0.7
	Low    int `json:"low_confidence"`    // strength <= 0.4
}

// TopCorrelation is one row of the report's top-10 table.
type TopCorrelation struct {
	ForensicFile      string  `json:"forensic_file"`
	ForensicTimestamp string  `json:"forensic_timestamp"`
	Strength          float64 `json:"correlation_strength"`
	OsintMatches      int     `json:"osint_matches"`
	TopOsintExcerpt   string  `json:"top_osint_content"`
}

// Report summarizes a correlation run.
type Report struct {
	Summary           string                 `json:"summary"`
	TotalCorrelations int                    `json:"total_correlations"`
	Confidence        ConfidenceDistribution `json:"confidence_distribution"`
	SourceBreakdown   map[string]int         `json:"osint_source_breakdown"`
	TopCorrelations   []TopCorrelation       `json:"top_correlations"`
}

// TimelineEntry is one row of the interleaved forensic/OSINT timeline.
type TimelineEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"` // "forensic" or "osint"

	// Forensic entries
	Event        *ForensicEvent `json:"event,omitempty"`
	Correlations int            `json:"correlations,omitempty"`
	Strength     float64        `json:"strength,omitempty"`

	// OSINT entries
	Item              *OsintItem `json:"item,omitempty"`
	ForensicPath      string     `json:"forensic_path,omitempty"`
	TemporalProximity float64    `json:"temporal_proximity,omitempty"`
	ContentRelevance  float64    `json:"content_relevance,omitempty"`
}

// TimeCluster is a run of forensic events whose correlations sit close
// together in time.
type TimeCluster struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	EventCount  int       `json:"event_count"`
	AvgStrength float64   `json:"avg_correlation_strength"`
}

// FileTypeStat aggregates correlation strength per forensic file type.
type FileTypeStat struct {
	Count       int     `json:"count"`
	AvgStrength float64 `json:"avg_strength"`
}

// SourceStat aggregates correlation strength and term frequency per OSINT
// source.
type SourceStat struct {
	Count       int            `json:"count"`
	AvgStrength float64        `json:"avg_strength"`
	CommonTerms map[string]int `json:"common_terms"`
}

// Patterns holds the secondary pattern-analysis views over a correlation
// result set.
type Patterns struct {
	TemporalClusters []TimeCluster           `json:"temporal_clusters"`
	FileTypeStats    map[string]FileTypeStat `json:"file_type_correlations"`
	SourceStats      map[string]SourceStat   `json:"source_correlations"`
}
