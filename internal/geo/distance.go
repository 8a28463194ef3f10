// Package geo computes great-circle proximity between the investigation
// location and OSINT item coordinates.
package geo

import (
	"math"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

const earthRadiusKM = 6371.0

// DistanceKM returns the haversine great-circle distance between two
// coordinate pairs in kilometers.
func DistanceKM(a, b models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Proximity computes the spatial proximity between two coordinate pairs.
// It returns nil when either pair is missing or malformed; no proximity is
// not the same as zero distance.
func Proximity(a, b *models.Coordinates, maxDistanceKM float64) *models.SpatialProximity {
	if a == nil || b == nil {
		return nil
	}
	if !validCoordinates(*a) || !validCoordinates(*b) {
		return nil
	}
	d := DistanceKM(*a, *b)
	return &models.SpatialProximity{
		DistanceKM:      d,
		WithinThreshold: d <= maxDistanceKM,
	}
}

func validCoordinates(c models.Coordinates) bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
