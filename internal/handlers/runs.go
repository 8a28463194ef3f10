package handlers

import (
	"errors"
	"net/http"

	"github.com/Nathan-Luevano/Sift/common/httputil"
	"github.com/Nathan-Luevano/Sift/internal/repository"
)

const defaultRunListLimit = 50

// ListRuns handles GET /api/v1/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "run persistence is not configured")
		return
	}

	limit := httputil.ParseIntParam(r.URL.Query().Get("limit"), defaultRunListLimit)
	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []repository.Run{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun handles GET /api/v1/runs/{id}.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "run persistence is not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.WriteError(w, http.StatusBadRequest, "run id is required")
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.Error("failed to load run", "run_id", id, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run)
}
