package correlation

import (
	"math"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

// Blend weights for a record's strength. Temporal proximity dominates;
// spatial and content signals split the remainder evenly.
const (
	temporalWeight = 0.4
	spatialWeight  = 0.3
	contentWeight  = 0.3

	// neutralSpatialScore is used when no spatial proximity was computed or
	// the item sits outside the distance threshold.
	neutralSpatialScore = 0.5
)

// recordStrength blends a single record's three proximity signals into a
// [0,1] value.
func recordStrength(rec *models.CorrelationRecord, windowHours, maxDistanceKM float64) float64 {
	temporal := math.Max(0, 1-rec.TemporalProximity/windowHours)

	spatial := neutralSpatialScore
	if rec.Spatial != nil && rec.Spatial.WithinThreshold {
		spatial = math.Max(0, 1-rec.Spatial.DistanceKM/maxDistanceKM)
	}

	return temporal*temporalWeight + spatial*spatialWeight + rec.ContentRelevance*contentWeight
}

// Strength reduces an event's correlation records to one value: the maximum
// record strength. Callers must not invoke this with an empty record set;
// events without records are absent from results, not zero-strength entries.
func Strength(records []models.CorrelationRecord, windowHours, maxDistanceKM float64) float64 {
	strength := 0.0
	for i := range records {
		if s := recordStrength(&records[i], windowHours, maxDistanceKM); s > strength {
			strength = s
		}
	}
	return strength
}
