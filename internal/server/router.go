package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nathan-Luevano/Sift/common/httputil"
	"github.com/Nathan-Luevano/Sift/common/logging"
	"github.com/Nathan-Luevano/Sift/common/middleware"
	"github.com/Nathan-Luevano/Sift/internal/handlers"
)

// NewRouter constructs a ServeMux with the correlation API routes registered
// and the standard middleware applied.
func NewRouter(h *handlers.Handler, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/correlate", h.Correlate)
	mux.HandleFunc("POST /api/v1/rank", h.Rank)
	mux.HandleFunc("GET /api/v1/runs", h.ListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.GetRun)
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	cors := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})

	return middleware.RequestID(cors(requestLogger(logger, mux)))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogger emits one access log line per request.
func requestLogger(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.WithContext(r.Context()).LogAttrs(r.Context(), slog.LevelInfo, "request handled",
			logging.Method(r.Method),
			logging.Path(r.URL.Path),
			logging.Status(sw.status),
			logging.Duration(time.Since(start).Milliseconds()),
			slog.String("client_ip", httputil.GetClientIP(r)),
		)
	})
}
