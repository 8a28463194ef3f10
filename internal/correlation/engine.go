// Package correlation implements the forensic/OSINT correlation engine:
// temporal windowing, spatial and content proximity scoring, strength
// aggregation, and the reporting and pattern views over a result set.
package correlation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Nathan-Luevano/Sift/internal/config"
	"github.com/Nathan-Luevano/Sift/internal/geo"
	"github.com/Nathan-Luevano/Sift/internal/metrics"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

var (
	ErrInvalidWindow   = errors.New("correlation time window must be positive")
	ErrInvalidDistance = errors.New("correlation max distance must be positive")
)

// Engine orchestrates correlation runs: it pairs every forensic event with
// the OSINT items in its time window, aggregates per-event strength, and
// returns the result set sorted strongest-first.
type Engine struct {
	windowHours      float64
	maxDistanceKM    float64
	workers          int
	maxContentLength int

	scorer   *Scorer
	geocoder geo.Geocoder // nil disables spatial scoring
	logger   *slog.Logger
}

// NewEngine builds an engine from configuration. Configuration errors fail
// fast here rather than silently producing nonsense scores.
func NewEngine(cfg config.CorrelationConfig, scorer *Scorer, geocoder geo.Geocoder, logger *slog.Logger) (*Engine, error) {
	if cfg.TimeWindowHours <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, cfg.TimeWindowHours)
	}
	if cfg.MaxDistanceKM <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDistance, cfg.MaxDistanceKM)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		windowHours:      cfg.TimeWindowHours,
		maxDistanceKM:    cfg.MaxDistanceKM,
		workers:          workers,
		maxContentLength: cfg.MaxContentLength,
		scorer:           scorer,
		geocoder:         geocoder,
		logger:           logger,
	}, nil
}

// Correlate runs the full correlation pass. Events and pool are read-only;
// the result references engine-owned copies of pool items. Events with no
// qualifying OSINT items are absent from the result, and the result is
// sorted descending by strength.
func (e *Engine) Correlate(ctx context.Context, events []models.ForensicEvent, pool []models.OsintItem, location string) (*models.CorrelationResult, error) {
	start := time.Now()
	defer func() {
		metrics.CorrelationDuration.Observe(time.Since(start).Seconds())
	}()

	e.logger.Info("correlating forensic events with OSINT items",
		"events", len(events), "pool", len(pool), "window_hours", e.windowHours)

	skipped := 0
	now := time.Now()

	// Resolve pool timestamps once and bound content length per item.
	items := make([]poolItem, len(pool))
	for i := range pool {
		item := pool[i]
		if e.maxContentLength > 0 && len(item.Content) > e.maxContentLength {
			item.Content = item.Content[:e.maxContentLength]
		}
		itemTime := item.Timestamp.Time
		if !item.Timestamp.Valid() {
			e.logger.Warn("unparsable OSINT timestamp, substituting current time",
				"raw", item.Timestamp.Raw, "url", item.URL)
			itemTime = now
			skipped++
		}
		items[i] = poolItem{item: &item, time: itemTime}
	}

	eventTimes := make([]time.Time, len(events))
	for i := range events {
		eventTimes[i] = events[i].Timestamp.Time
		if !events[i].Timestamp.Valid() {
			e.logger.Warn("unparsable forensic timestamp, substituting current time",
				"raw", events[i].Timestamp.Raw, "path", events[i].FilePath)
			eventTimes[i] = now
			skipped++
		}
	}
	metrics.SkippedTimestamps.Add(float64(skipped))

	var coords *models.Coordinates
	if location != "" && e.geocoder != nil {
		var err error
		coords, err = e.geocoder.Geocode(ctx, location)
		if err != nil {
			// Geocoding failure only disables spatial scoring.
			e.logger.Warn("geocoding failed, spatial scoring disabled", "location", location, "error", err)
			coords = nil
		}
	}

	// Events are independent; score them on a bounded worker pool.
	var (
		mu           sync.Mutex
		wg           sync.WaitGroup
		correlations []models.EventCorrelation
	)
	indexes := make(chan int)

	workers := e.workers
	if workers > len(events) && len(events) > 0 {
		workers = len(events)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				records := e.correlateEvent(ctx, &events[i], eventTimes[i], items, coords)
				if len(records) == 0 {
					continue
				}
				ec := models.EventCorrelation{
					Event:     &events[i],
					EventTime: eventTimes[i],
					Records:   records,
					Strength:  Strength(records, e.windowHours, e.maxDistanceKM),
				}
				mu.Lock()
				correlations = append(correlations, ec)
				mu.Unlock()
			}
		}()
	}

	for i := range events {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(indexes)
	wg.Wait()

	// Concurrent completion order is arbitrary; the sort restores
	// deterministic output for fixed inputs.
	sort.SliceStable(correlations, func(i, j int) bool {
		if correlations[i].Strength != correlations[j].Strength {
			return correlations[i].Strength > correlations[j].Strength
		}
		if !correlations[i].EventTime.Equal(correlations[j].EventTime) {
			return correlations[i].EventTime.Before(correlations[j].EventTime)
		}
		return correlations[i].Event.FilePath < correlations[j].Event.FilePath
	})

	metrics.CorrelationsTotal.Add(float64(len(correlations)))
	e.logger.Info("correlation run complete",
		"correlations", len(correlations), "skipped_timestamps", skipped,
		"duration_ms", time.Since(start).Milliseconds())

	return &models.CorrelationResult{
		Correlations:      correlations,
		SkippedTimestamps: skipped,
	}, nil
}
