package handlers

import (
	"net/http"

	"github.com/Nathan-Luevano/Sift/common/httputil"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sift",
	})
}
