// Package notifier publishes run-completion events so downstream consumers
// (dashboards, alerting) can react without polling the API.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// RunCompleted is the message published after each correlation/ranking run.
type RunCompleted struct {
	RunID             string    `json:"run_id"`
	CompletedAt       time.Time `json:"completed_at"`
	Location          string    `json:"location,omitempty"`
	EventCount        int       `json:"event_count"`
	OsintCount        int       `json:"osint_count"`
	CorrelationCount  int       `json:"correlation_count"`
	RankedCount       int       `json:"ranked_count"`
	SkippedTimestamps int       `json:"skipped_timestamps"`
	DurationMS        int64     `json:"duration_ms"`
}

// Notifier publishes run lifecycle events. Implementations must be safe for
// concurrent use.
type Notifier interface {
	RunCompleted(ctx context.Context, event RunCompleted) error
}

// NATSNotifier publishes run events to a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier connects to NATS at url and publishes to subject.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("sift"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSNotifier{conn: conn, subject: subject}, nil
}

// RunCompleted publishes the event as JSON.
func (n *NATSNotifier) RunCompleted(_ context.Context, event RunCompleted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode run event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish run event: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Drain()
	}
}

// Noop is a Notifier that discards events; used when NATS is disabled.
type Noop struct{}

func (Noop) RunCompleted(context.Context, RunCompleted) error { return nil }
