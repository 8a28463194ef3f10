// Package repository persists correlation/ranking runs to Postgres so
// investigators can revisit earlier results. Persistence is optional: the
// engine runs fine with a nil repository.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is the persisted summary of one correlation/ranking invocation.
type Run struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Location          string    `json:"location"`
	EventCount        int       `json:"event_count"`
	OsintCount        int       `json:"osint_count"`
	CorrelationCount  int       `json:"correlation_count"`
	RankedCount       int       `json:"ranked_count"`
	SkippedTimestamps int       `json:"skipped_timestamps"`
	DurationMS        int64     `json:"duration_ms"`

	TopCorrelations []models.TopCorrelation `json:"top_correlations,omitempty"`
	RankedItems     []models.RankedItem     `json:"ranked_items,omitempty"`
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to Postgres and verifies the connection.
func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() { r.pool.Close() }

// Migrate applies the embedded schema migrations against connString.
func Migrate(connString string) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, connString)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration db: %w", dbErr)
	}
	return nil
}

// SaveRun writes a run and its result rows in one transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, run *Run) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, created_at, location, event_count, osint_count,
		                   correlation_count, ranked_count, skipped_timestamps, duration_ms)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		run.ID, run.CreatedAt, run.Location, run.EventCount, run.OsintCount,
		run.CorrelationCount, run.RankedCount, run.SkippedTimestamps, run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, tc := range run.TopCorrelations {
		eventTime, _ := time.Parse(time.RFC3339, tc.ForensicTimestamp)
		_, err = tx.Exec(ctx,
			`INSERT INTO run_correlations (run_id, position, file_path, event_time, strength, osint_matches, excerpt)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			run.ID, i, tc.ForensicFile, eventTime, tc.Strength, tc.OsintMatches, tc.TopOsintExcerpt,
		)
		if err != nil {
			return fmt.Errorf("insert correlation row: %w", err)
		}
	}

	for i, item := range run.RankedItems {
		_, err = tx.Exec(ctx,
			`INSERT INTO run_ranked_items (run_id, position, url, source, title,
			                               final_score, evidence_score, security_score, explanation, boost_reason)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			run.ID, i, item.URL, item.Source, item.Title,
			item.FinalScore, item.EvidenceScore, item.SecurityScore, item.Explanation, item.BoostReason,
		)
		if err != nil {
			return fmt.Errorf("insert ranked item row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetRun loads a run and its result rows.
func (r *PostgresRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at, location, event_count, osint_count,
		        correlation_count, ranked_count, skipped_timestamps, duration_ms
		 FROM runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.CreatedAt, &run.Location, &run.EventCount, &run.OsintCount,
		&run.CorrelationCount, &run.RankedCount, &run.SkippedTimestamps, &run.DurationMS)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select run: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT file_path, event_time, strength, osint_matches, excerpt
		 FROM run_correlations WHERE run_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("select correlations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc models.TopCorrelation
		var eventTime time.Time
		if err := rows.Scan(&tc.ForensicFile, &eventTime, &tc.Strength, &tc.OsintMatches, &tc.TopOsintExcerpt); err != nil {
			return nil, fmt.Errorf("scan correlation row: %w", err)
		}
		tc.ForensicTimestamp = eventTime.Format(time.RFC3339)
		run.TopCorrelations = append(run.TopCorrelations, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate correlations: %w", err)
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT url, source, title, final_score, evidence_score, security_score, explanation, boost_reason
		 FROM run_ranked_items WHERE run_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("select ranked items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item models.RankedItem
		if err := itemRows.Scan(&item.URL, &item.Source, &item.Title,
			&item.FinalScore, &item.EvidenceScore, &item.SecurityScore,
			&item.Explanation, &item.BoostReason); err != nil {
			return nil, fmt.Errorf("scan ranked item row: %w", err)
		}
		run.RankedItems = append(run.RankedItems, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked items: %w", err)
	}

	return &run, nil
}

// ListRuns returns run summaries, newest first.
func (r *PostgresRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at, location, event_count, osint_count,
		        correlation_count, ranked_count, skipped_timestamps, duration_ms
		 FROM runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Location, &run.EventCount, &run.OsintCount,
			&run.CorrelationCount, &run.RankedCount, &run.SkippedTimestamps, &run.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
