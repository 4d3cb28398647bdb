// Package history persists conversion run summaries to PostgreSQL.
//
// The store is optional: when no database is configured the application
// passes a nil *Store and every method is a no-op. This keeps the
// conversion pipeline fully usable without any infrastructure.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRecord is one persisted conversion run summary.
type RunRecord struct {
	RunID          uuid.UUID
	Vendor         string
	Groups         int
	Variants       int
	FailedVariants int
	Rows           int
	Warnings       int
	Valid          bool
	Duration       time.Duration
	CreatedAt      time.Time
}

// Store handles run history persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a run history store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS conversion_runs (
	run_id          UUID PRIMARY KEY,
	vendor          TEXT NOT NULL DEFAULT '',
	groups          INTEGER NOT NULL DEFAULT 0,
	variants        INTEGER NOT NULL DEFAULT 0,
	failed_variants INTEGER NOT NULL DEFAULT 0,
	rows            INTEGER NOT NULL DEFAULT 0,
	warnings        INTEGER NOT NULL DEFAULT 0,
	valid           BOOLEAN NOT NULL DEFAULT TRUE,
	duration_ms     BIGINT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_conversion_runs_created_at ON conversion_runs (created_at DESC);
`

// EnsureSchema creates the run history table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

// RecordRun inserts one run summary. A nil store drops the record silently.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) error {
	if s == nil || s.pool == nil {
		return nil
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversion_runs
			(run_id, vendor, groups, variants, failed_variants, rows, warnings, valid, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.RunID, rec.Vendor, rec.Groups, rec.Variants, rec.FailedVariants,
		rec.Rows, rec.Warnings, rec.Valid, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", rec.RunID, err)
	}
	return nil
}

// RecentRuns returns the most recent run summaries, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s == nil || s.pool == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT run_id, vendor, groups, variants, failed_variants, rows, warnings, valid, duration_ms, created_at
		FROM conversion_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0, limit)
	for rows.Next() {
		var (
			rec        RunRecord
			runID      pgtype.UUID
			durationMS int64
			createdAt  pgtype.Timestamptz
		)
		err := rows.Scan(
			&runID, &rec.Vendor, &rec.Groups, &rec.Variants, &rec.FailedVariants,
			&rec.Rows, &rec.Warnings, &rec.Valid, &durationMS, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if runID.Valid {
			rec.RunID = uuid.UUID(runID.Bytes)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return records, nil
}
