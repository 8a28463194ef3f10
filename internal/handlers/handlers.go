// Package handlers exposes the correlation engine and ranking pipeline over
// HTTP. Handlers validate input, delegate to the engine, persist the run when
// a repository is configured, and publish completion events.
package handlers

import (
	"context"
	"log/slog"

	"github.com/Nathan-Luevano/Sift/internal/correlation"
	"github.com/Nathan-Luevano/Sift/internal/notifier"
	"github.com/Nathan-Luevano/Sift/internal/ranking"
	"github.com/Nathan-Luevano/Sift/internal/repository"
)

// RunStore is the subset of the repository the handlers need.
type RunStore interface {
	SaveRun(ctx context.Context, run *repository.Run) error
	GetRun(ctx context.Context, id string) (*repository.Run, error)
	ListRuns(ctx context.Context, limit int) ([]repository.Run, error)
}

// Handler carries the engine wiring shared by all endpoints.
type Handler struct {
	engine         *correlation.Engine
	pipeline       *ranking.Pipeline
	store          RunStore // nil disables persistence
	notify         notifier.Notifier
	maxRequestSize int64
	logger         *slog.Logger
}

// New creates a Handler. store may be nil; notify may be nil (treated as a
// no-op).
func New(engine *correlation.Engine, pipeline *ranking.Pipeline, store RunStore, notify notifier.Notifier, maxRequestSize int64, logger *slog.Logger) *Handler {
	if notify == nil {
		notify = notifier.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if maxRequestSize <= 0 {
		maxRequestSize = 32 << 20
	}
	return &Handler{
		engine:         engine,
		pipeline:       pipeline,
		store:          store,
		notify:         notify,
		maxRequestSize: maxRequestSize,
		logger:         logger,
	}
}
