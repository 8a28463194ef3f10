package geo

import (
	"context"
	"strings"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

// Geocoder resolves a free-text location string to coordinates. Resolution is
// an external concern; a nil result disables spatial scoring for the run.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*models.Coordinates, error)
}

// StaticGeocoder resolves locations from a fixed table. It backs the CLI and
// tests; production deployments plug in a real resolver.
type StaticGeocoder struct {
	table map[string]models.Coordinates
}

// NewStaticGeocoder builds a geocoder over the given location table. Keys are
// matched case-insensitively.
func NewStaticGeocoder(table map[string]models.Coordinates) *StaticGeocoder {
	normalized := make(map[string]models.Coordinates, len(table))
	for k, v := range table {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &StaticGeocoder{table: normalized}
}

// DefaultTable covers the metro areas that show up most often in incident
// reporting. Deployments with broader needs supply their own table or a real
// resolver.
var DefaultTable = map[string]models.Coordinates{
	"new york":      {Lat: 40.7128, Lon: -74.0060},
	"london":        {Lat: 51.5074, Lon: -0.1278},
	"san francisco": {Lat: 37.7749, Lon: -122.4194},
	"seattle":       {Lat: 47.6062, Lon: -122.3321},
	"chicago":       {Lat: 41.8781, Lon: -87.6298},
	"washington":    {Lat: 38.9072, Lon: -77.0369},
	"moscow":        {Lat: 55.7558, Lon: 37.6173},
	"beijing":       {Lat: 39.9042, Lon: 116.4074},
	"tel aviv":      {Lat: 32.0853, Lon: 34.7818},
	"berlin":        {Lat: 52.5200, Lon: 13.4050},
}

// Geocode looks up the location in the table. Unknown locations resolve to
// nil without error.
func (g *StaticGeocoder) Geocode(_ context.Context, location string) (*models.Coordinates, error) {
	if c, ok := g.table[strings.ToLower(strings.TrimSpace(location))]; ok {
		coord := c
		return &coord, nil
	}
	return nil, nil
}
