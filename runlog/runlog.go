// CLAUDE:SUMMARY Persists a history of conversion runs in SQLite.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hazyhaar/pagebridge/dbopen"
)

// Schema creates the runs table. Passed to dbopen.WithSchema or applied
// by Init.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	target         TEXT NOT NULL,
	input_path     TEXT NOT NULL DEFAULT '',
	elements       INTEGER NOT NULL DEFAULT 0,
	zones          INTEGER NOT NULL DEFAULT 0,
	content_items  INTEGER NOT NULL DEFAULT 0,
	modified_zones INTEGER NOT NULL DEFAULT 0,
	error_count    INTEGER NOT NULL DEFAULT 0,
	duration_ms    INTEGER NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT 'ok',
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`

// Run is one recorded conversion or transform invocation.
type Run struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Target        string    `json:"target"`
	InputPath     string    `json:"input_path,omitempty"`
	Elements      int       `json:"elements"`
	Zones         int       `json:"zones"`
	ContentItems  int       `json:"content_items"`
	ModifiedZones int       `json:"modified_zones"`
	ErrorCount    int       `json:"error_count"`
	DurationMs    int64     `json:"duration_ms"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store wraps the run history database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Init applies the schema. Safe to call on every startup.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("runlog: apply schema: %w", err)
	}
	return nil
}

// Insert records a run. A missing ID, Status, or CreatedAt is filled in.
func (s *Store) Insert(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = "ok"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, source, target, input_path, elements, zones,
				content_items, modified_zones, error_count, duration_ms, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Source, r.Target, r.InputPath, r.Elements, r.Zones,
			r.ContentItems, r.ModifiedZones, r.ErrorCount, r.DurationMs,
			r.Status, r.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("runlog: insert run: %w", err)
		}
		return nil
	})
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, source, target, input_path, elements, zones, content_items,
			modified_zones, error_count, duration_ms, status, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("runlog: list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Source, &r.Target, &r.InputPath,
			&r.Elements, &r.Zones, &r.ContentItems, &r.ModifiedZones,
			&r.ErrorCount, &r.DurationMs, &r.Status, &created); err != nil {
			return nil, fmt.Errorf("runlog: scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Stats summarizes the whole history.
type Stats struct {
	TotalRuns  int            `json:"total_runs"`
	Failed     int            `json:"failed"`
	ByPair     map[string]int `json:"by_pair"`
	TotalItems int            `json:"total_content_items"`
}

// Stats aggregates run counts by conversion pair.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	out := &Stats{ByPair: make(map[string]int)}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT source || '->' || target, COUNT(*),
			SUM(CASE WHEN status != 'ok' THEN 1 ELSE 0 END),
			SUM(content_items)
		FROM runs GROUP BY source, target`)
	if err != nil {
		return nil, fmt.Errorf("runlog: stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pair string
		var count, failed, items int
		if err := rows.Scan(&pair, &count, &failed, &items); err != nil {
			return nil, fmt.Errorf("runlog: scan stats: %w", err)
		}
		out.ByPair[pair] = count
		out.TotalRuns += count
		out.Failed += failed
		out.TotalItems += items
	}
	return out, rows.Err()
}
