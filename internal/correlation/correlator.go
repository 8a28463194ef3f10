package correlation

import (
	"context"
	"sort"
	"time"

	"github.com/Nathan-Luevano/Sift/internal/geo"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

// poolItem is an OSINT item with its timestamp resolved once per run.
type poolItem struct {
	item *models.OsintItem
	time time.Time
}

// correlateEvent finds all pool items inside the event's time window,
// inclusive of bounds, and builds one record per qualifying item. Records
// come back sorted ascending by temporal proximity for stable downstream
// tie-breaking.
func (e *Engine) correlateEvent(ctx context.Context, event *models.ForensicEvent, eventTime time.Time, pool []poolItem, location *models.Coordinates) []models.CorrelationRecord {
	window := time.Duration(e.windowHours * float64(time.Hour))
	start := eventTime.Add(-window)
	end := eventTime.Add(window)

	var records []models.CorrelationRecord
	for i := range pool {
		itemTime := pool[i].time
		if itemTime.Before(start) || itemTime.After(end) {
			continue
		}

		rec := models.CorrelationRecord{
			Item:              pool[i].item,
			ItemTime:          itemTime,
			TemporalProximity: eventTime.Sub(itemTime).Abs().Hours(),
		}

		if location != nil {
			rec.Spatial = geo.Proximity(location, pool[i].item.Coordinates, e.maxDistanceKM)
		}

		rec.ContentRelevance = e.scorer.Score(ctx, event, pool[i].item)

		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TemporalProximity < records[j].TemporalProximity
	})

	return records
}
