package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Nathan-Luevano/Sift/common/httputil"
	"github.com/Nathan-Luevano/Sift/internal/models"
	"github.com/Nathan-Luevano/Sift/internal/repository"
)

type rankRequest struct {
	Osint   []models.OsintItem      `json:"osint"`
	Context *models.ForensicContext `json:"forensic_context,omitempty"`
}

type rankResponse struct {
	RunID    string              `json:"run_id"`
	Input    int                 `json:"input"`
	Returned int                 `json:"returned"`
	Items    []models.RankedItem `json:"items"`
}

// Rank handles POST /api/v1/rank.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := httputil.DecodeJSON(w, r, &req, h.maxRequestSize); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Osint) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "osint must not be empty")
		return
	}

	start := time.Now()
	items := h.pipeline.Rank(r.Context(), req.Osint, req.Context)
	if r.Context().Err() != nil {
		return
	}
	if items == nil {
		items = []models.RankedItem{}
	}

	resp := rankResponse{
		RunID:    uuid.NewString(),
		Input:    len(req.Osint),
		Returned: len(items),
		Items:    items,
	}

	h.persistAndNotify(r.Context(), &repository.Run{
		ID:          resp.RunID,
		CreatedAt:   time.Now().UTC(),
		OsintCount:  len(req.Osint),
		RankedCount: len(items),
		DurationMS:  time.Since(start).Milliseconds(),
		RankedItems: items,
	})

	httputil.WriteJSON(w, http.StatusOK, resp)
}
