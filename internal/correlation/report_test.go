package correlation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

func testResult(base time.Time) *models.CorrelationResult {
	eventA := &models.ForensicEvent{FilePath: `C:\a.exe`, FileType: "executable"}
	eventB := &models.ForensicEvent{FilePath: `C:\b.txt`}
	eventC := &models.ForensicEvent{FilePath: `C:\c.txt`}

	newsItem := &models.OsintItem{Source: "news", Content: "malware campaign details published today"}
	twitterItem := &models.OsintItem{Source: "twitter", Content: strings.Repeat("long incident writeup ", 15)}

	return &models.CorrelationResult{
		Correlations: []models.EventCorrelation{
			{
				Event:     eventA,
				EventTime: base,
				Strength:  0.9,
				Records: []models.CorrelationRecord{
					{Item: newsItem, ItemTime: base.Add(time.Hour), TemporalProximity: 1},
					{Item: twitterItem, ItemTime: base.Add(2 * time.Hour), TemporalProximity: 2},
				},
			},
			{
				Event:     eventB,
				EventTime: base.Add(time.Hour),
				Strength:  0.5,
				Records: []models.CorrelationRecord{
					{Item: twitterItem, ItemTime: base.Add(2 * time.Hour), TemporalProximity: 1},
				},
			},
			{
				Event:     eventC,
				EventTime: base.Add(12 * time.Hour),
				Strength:  0.2,
				Records: []models.CorrelationRecord{
					{Item: newsItem, ItemTime: base.Add(12 * time.Hour), TemporalProximity: 0},
				},
			},
		},
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(&models.CorrelationResult{})
	assert.Equal(t, "No correlations found", report.Summary)
	assert.Empty(t, report.TopCorrelations)
	assert.Zero(t, report.TotalCorrelations)
}

func TestBuildReport(t *testing.T) {
	base := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	report := BuildReport(testResult(base))

	assert.Equal(t, "Found 3 correlations between forensic events and OSINT data", report.Summary)
	assert.Equal(t, 3, report.TotalCorrelations)

	assert.Equal(t, 1, report.Confidence.High)
	assert.Equal(t, 1, report.Confidence.Medium)
	assert.Equal(t, 1, report.Confidence.Low)

	assert.Equal(t, map[string]int{"news": 2, "twitter": 2}, report.SourceBreakdown)

	require.Len(t, report.TopCorrelations, 3)
	top := report.TopCorrelations[0]
	assert.Equal(t, `C:\a.exe`, top.ForensicFile)
	assert.Equal(t, base.Format(time.RFC3339), top.ForensicTimestamp)
	assert.Equal(t, 2, top.OsintMatches)
	assert.Equal(t, "malware campaign details published today", top.TopOsintExcerpt)
}

func TestBuildReportTruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("x", 300)
	result := &models.CorrelationResult{
		Correlations: []models.EventCorrelation{
			{
				Event:    &models.ForensicEvent{FilePath: "a"},
				Strength: 0.5,
				Records: []models.CorrelationRecord{
					{Item: &models.OsintItem{Source: "news", Content: long}},
				},
			},
		},
	}

	report := BuildReport(result)
	require.Len(t, report.TopCorrelations, 1)
	excerpt := report.TopCorrelations[0].TopOsintExcerpt
	assert.Len(t, excerpt, 203)
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

func TestBuildTimeline(t *testing.T) {
	base := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	timeline := BuildTimeline(testResult(base))

	// 3 forensic entries plus 4 osint entries.
	require.Len(t, timeline, 7)

	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].Timestamp.Before(timeline[i-1].Timestamp),
			"timeline must be sorted by timestamp")
	}

	forensic, osint := 0, 0
	for _, entry := range timeline {
		switch entry.Type {
		case "forensic":
			forensic++
			assert.NotNil(t, entry.Event)
		case "osint":
			osint++
			assert.NotNil(t, entry.Item)
			assert.NotEmpty(t, entry.ForensicPath)
		default:
			t.Fatalf("unexpected timeline entry type %q", entry.Type)
		}
	}
	assert.Equal(t, 3, forensic)
	assert.Equal(t, 4, osint)
}

func TestBuildTimelineCapsOsintPerEvent(t *testing.T) {
	base := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	item := &models.OsintItem{Source: "news", Content: "x"}

	records := make([]models.CorrelationRecord, 5)
	for i := range records {
		records[i] = models.CorrelationRecord{Item: item, ItemTime: base}
	}
	result := &models.CorrelationResult{
		Correlations: []models.EventCorrelation{
			{Event: &models.ForensicEvent{FilePath: "a"}, EventTime: base, Records: records},
		},
	}

	timeline := BuildTimeline(result)
	assert.Len(t, timeline, 4) // forensic entry + 3 capped osint entries
}

func TestAnalyzePatterns(t *testing.T) {
	base := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	patterns := AnalyzePatterns(testResult(base))

	// Events at base and base+1h cluster; the one at base+12h stands alone
	// and is below the minimum cluster size.
	require.Len(t, patterns.TemporalClusters, 1)
	cluster := patterns.TemporalClusters[0]
	assert.Equal(t, 2, cluster.EventCount)
	assert.True(t, cluster.StartTime.Equal(base))
	assert.True(t, cluster.EndTime.Equal(base.Add(time.Hour)))
	assert.InDelta(t, 0.7, cluster.AvgStrength, 1e-9)

	require.Contains(t, patterns.FileTypeStats, "executable")
	require.Contains(t, patterns.FileTypeStats, "unknown")
	assert.Equal(t, 1, patterns.FileTypeStats["executable"].Count)
	assert.Equal(t, 2, patterns.FileTypeStats["unknown"].Count)
	assert.InDelta(t, 0.35, patterns.FileTypeStats["unknown"].AvgStrength, 1e-9)

	news := patterns.SourceStats["news"]
	assert.Equal(t, 2, news.Count)
	assert.InDelta(t, (0.9+0.2)/2, news.AvgStrength, 1e-9)
	assert.Equal(t, 2, news.CommonTerms["malware"])
}

func TestAnalyzePatternsEmpty(t *testing.T) {
	patterns := AnalyzePatterns(&models.CorrelationResult{})
	assert.Empty(t, patterns.TemporalClusters)
	assert.Empty(t, patterns.FileTypeStats)
	assert.Empty(t, patterns.SourceStats)
}
