package correlation

import (
	"fmt"
	"sort"
	"time"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

const (
	highConfidenceFloor   = 0.7
	mediumConfidenceFloor = 0.4
	reportTopCount        = 10
	excerptLength         = 200
	timelineOsintPerEvent = 3
)

// BuildReport summarizes a correlation result: confidence buckets, per-source
// match counts, and the strongest correlations with a content excerpt.
func BuildReport(result *models.CorrelationResult) *models.Report {
	correlations := result.Correlations
	if len(correlations) == 0 {
		return &models.Report{
			Summary:         "No correlations found",
			SourceBreakdown: map[string]int{},
			TopCorrelations: []models.TopCorrelation{},
		}
	}

	report := &models.Report{
		Summary:           fmt.Sprintf("Found %d correlations between forensic events and OSINT data", len(correlations)),
		TotalCorrelations: len(correlations),
		SourceBreakdown:   make(map[string]int),
	}

	for i := range correlations {
		switch s := correlations[i].Strength; {
		case s > highConfidenceFloor:
			report.Confidence.High++
		case s > mediumConfidenceFloor:
			report.Confidence.Medium++
		default:
			report.Confidence.Low++
		}

		for j := range correlations[i].Records {
			report.SourceBreakdown[correlations[i].Records[j].Item.Source]++
		}
	}

	top := correlations
	if len(top) > reportTopCount {
		top = top[:reportTopCount]
	}
	report.TopCorrelations = make([]models.TopCorrelation, 0, len(top))
	for i := range top {
		report.TopCorrelations = append(report.TopCorrelations, models.TopCorrelation{
			ForensicFile:      top[i].Event.FilePath,
			ForensicTimestamp: top[i].EventTime.Format(time.RFC3339),
			Strength:          top[i].Strength,
			OsintMatches:      len(top[i].Records),
			TopOsintExcerpt:   excerpt(top[i].Records),
		})
	}

	return report
}

func excerpt(records []models.CorrelationRecord) string {
	if len(records) == 0 {
		return ""
	}
	content := records[0].Item.Content
	if len(content) > excerptLength {
		return content[:excerptLength] + "..."
	}
	return content
}

// BuildTimeline interleaves forensic entries with the top correlated OSINT
// entries per event, globally sorted by timestamp.
func BuildTimeline(result *models.CorrelationResult) []models.TimelineEntry {
	var timeline []models.TimelineEntry

	for i := range result.Correlations {
		c := &result.Correlations[i]
		timeline = append(timeline, models.TimelineEntry{
			Timestamp:    c.EventTime,
			Type:         "forensic",
			Event:        c.Event,
			Correlations: len(c.Records),
			Strength:     c.Strength,
		})

		records := c.Records
		if len(records) > timelineOsintPerEvent {
			records = records[:timelineOsintPerEvent]
		}
		for j := range records {
			timeline = append(timeline, models.TimelineEntry{
				Timestamp:         records[j].ItemTime,
				Type:              "osint",
				Item:              records[j].Item,
				ForensicPath:      c.Event.FilePath,
				TemporalProximity: records[j].TemporalProximity,
				ContentRelevance:  records[j].ContentRelevance,
			})
		}
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp.Before(timeline[j].Timestamp)
	})

	return timeline
}
