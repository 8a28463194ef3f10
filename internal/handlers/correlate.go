package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Nathan-Luevano/Sift/common/httputil"
	"github.com/Nathan-Luevano/Sift/common/logging"
	"github.com/Nathan-Luevano/Sift/internal/correlation"
	"github.com/Nathan-Luevano/Sift/internal/models"
	"github.com/Nathan-Luevano/Sift/internal/notifier"
	"github.com/Nathan-Luevano/Sift/internal/repository"
)

type correlateRequest struct {
	Events   []models.ForensicEvent `json:"events"`
	Osint    []models.OsintItem     `json:"osint"`
	Location string                 `json:"location,omitempty"`
}

type correlateResponse struct {
	RunID             string                    `json:"run_id"`
	Correlations      []models.EventCorrelation `json:"correlations"`
	SkippedTimestamps int                       `json:"skipped_timestamps"`
	Report            *models.Report            `json:"report"`
	Timeline          []models.TimelineEntry    `json:"timeline"`
	Patterns          *models.Patterns          `json:"patterns"`
}

// Correlate handles POST /api/v1/correlate.
func (h *Handler) Correlate(w http.ResponseWriter, r *http.Request) {
	var req correlateRequest
	if err := httputil.DecodeJSON(w, r, &req, h.maxRequestSize); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Events) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "events must not be empty")
		return
	}

	start := time.Now()
	result, err := h.engine.Correlate(r.Context(), req.Events, req.Osint, req.Location)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away mid-run; nothing useful to write.
			return
		}
		h.logger.Error("correlation run failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "correlation failed")
		return
	}

	report := correlation.BuildReport(result)
	resp := correlateResponse{
		RunID:             uuid.NewString(),
		Correlations:      result.Correlations,
		SkippedTimestamps: result.SkippedTimestamps,
		Report:            report,
		Timeline:          correlation.BuildTimeline(result),
		Patterns:          correlation.AnalyzePatterns(result),
	}

	h.persistAndNotify(r.Context(), &repository.Run{
		ID:                resp.RunID,
		CreatedAt:         time.Now().UTC(),
		Location:          req.Location,
		EventCount:        len(req.Events),
		OsintCount:        len(req.Osint),
		CorrelationCount:  len(result.Correlations),
		SkippedTimestamps: result.SkippedTimestamps,
		DurationMS:        time.Since(start).Milliseconds(),
		TopCorrelations:   report.TopCorrelations,
	})

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// persistAndNotify records the run and publishes its completion. Both are
// best-effort: a storage or broker outage never fails the request itself.
func (h *Handler) persistAndNotify(ctx context.Context, run *repository.Run) {
	if h.store != nil {
		if err := h.store.SaveRun(ctx, run); err != nil {
			h.logger.Error("failed to persist run", logging.RunID(run.ID), logging.Error(err))
		}
	}
	event := notifier.RunCompleted{
		RunID:             run.ID,
		CompletedAt:       run.CreatedAt,
		Location:          run.Location,
		EventCount:        run.EventCount,
		OsintCount:        run.OsintCount,
		CorrelationCount:  run.CorrelationCount,
		RankedCount:       run.RankedCount,
		SkippedTimestamps: run.SkippedTimestamps,
		DurationMS:        run.DurationMS,
	}
	if err := h.notify.RunCompleted(ctx, event); err != nil {
		h.logger.Error("failed to publish run event", "run_id", run.ID, "error", err)
	}
}
