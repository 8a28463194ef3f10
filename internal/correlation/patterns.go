package correlation

import (
	"sort"

	"github.com/Nathan-Luevano/Sift/internal/keywords"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

const (
	// clusterGapHours is the maximum gap between consecutive forensic events
	// for them to belong to the same activity cluster.
	clusterGapHours = 2.0

	// minClusterSize is the smallest cluster worth reporting.
	minClusterSize = 2

	// termSampleSize caps how many keywords each item contributes to the
	// per-source term frequency.
	termSampleSize = 10
)

// AnalyzePatterns computes the secondary pattern views over a correlation
// result: time clusters, per-file-type strength, and per-source term
// frequency.
func AnalyzePatterns(result *models.CorrelationResult) *models.Patterns {
	return &models.Patterns{
		TemporalClusters: clusterByTime(result.Correlations),
		FileTypeStats:    fileTypeStats(result.Correlations),
		SourceStats:      sourceStats(result.Correlations),
	}
}

// clusterByTime merges consecutive correlations (by forensic timestamp) into
// clusters while the gap to the previous entry stays within clusterGapHours.
func clusterByTime(correlations []models.EventCorrelation) []models.TimeCluster {
	sorted := make([]models.EventCorrelation, len(correlations))
	copy(sorted, correlations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EventTime.Before(sorted[j].EventTime)
	})

	clusters := []models.TimeCluster{}
	var current []models.EventCorrelation

	flush := func() {
		if len(current) < minClusterSize {
			return
		}
		sum := 0.0
		for i := range current {
			sum += current[i].Strength
		}
		clusters = append(clusters, models.TimeCluster{
			StartTime:   current[0].EventTime,
			EndTime:     current[len(current)-1].EventTime,
			EventCount:  len(current),
			AvgStrength: sum / float64(len(current)),
		})
	}

	for i := range sorted {
		if len(current) == 0 {
			current = append(current, sorted[i])
			continue
		}
		gap := sorted[i].EventTime.Sub(current[len(current)-1].EventTime).Abs().Hours()
		if gap <= clusterGapHours {
			current = append(current, sorted[i])
		} else {
			flush()
			current = []models.EventCorrelation{sorted[i]}
		}
	}
	flush()

	return clusters
}

func fileTypeStats(correlations []models.EventCorrelation) map[string]models.FileTypeStat {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range correlations {
		fileType := correlations[i].Event.FileType
		if fileType == "" {
			fileType = "unknown"
		}
		sums[fileType] += correlations[i].Strength
		counts[fileType]++
	}

	stats := make(map[string]models.FileTypeStat, len(counts))
	for fileType, count := range counts {
		stats[fileType] = models.FileTypeStat{
			Count:       count,
			AvgStrength: sums[fileType] / float64(count),
		}
	}
	return stats
}

// sourceStats aggregates per-OSINT-source record counts, term frequency over
// the leading content keywords, and record-weighted average strength.
func sourceStats(correlations []models.EventCorrelation) map[string]models.SourceStat {
	counts := make(map[string]int)
	terms := make(map[string]map[string]int)
	strengthSums := make(map[string]float64)
	strengthCounts := make(map[string]int)

	for i := range correlations {
		for j := range correlations[i].Records {
			item := correlations[i].Records[j].Item
			source := item.Source

			counts[source]++
			strengthSums[source] += correlations[i].Strength
			strengthCounts[source]++

			if terms[source] == nil {
				terms[source] = make(map[string]int)
			}
			words := keywords.ContentKeywords(item.Content)
			if len(words) > termSampleSize {
				words = words[:termSampleSize]
			}
			for _, w := range words {
				terms[source][w]++
			}
		}
	}

	stats := make(map[string]models.SourceStat, len(counts))
	for source, count := range counts {
		stat := models.SourceStat{
			Count:       count,
			CommonTerms: terms[source],
		}
		if strengthCounts[source] > 0 {
			stat.AvgStrength = strengthSums[source] / float64(strengthCounts[source])
		}
		stats[source] = stat
	}
	return stats
}
