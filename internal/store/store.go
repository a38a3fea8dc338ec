// Package store persists activities and their computed statistic mappings
// in Postgres.
package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS activity (
	id          UUID PRIMARY KEY,
	path        TEXT UNIQUE NOT NULL,
	sport       TEXT NOT NULL DEFAULT 'unknown',
	start_time  TIMESTAMPTZ NOT NULL,
	finish_time TIMESTAMPTZ NOT NULL,
	computed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS activity_statistic (
	activity_id UUID NOT NULL REFERENCES activity(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	value       DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (activity_id, name)
);

CREATE INDEX IF NOT EXISTS idx_activity_start_time ON activity(start_time);
`

// Activity is one stored recording.
type Activity struct {
	ID         uuid.UUID  `json:"id"`
	Path       string     `json:"path"`
	Sport      string     `json:"sport"`
	Start      time.Time  `json:"start"`
	Finish     time.Time  `json:"finish"`
	ComputedAt *time.Time `json:"computed_at,omitempty"`
}

// Store wraps a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects and ensures the schema exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

// UpsertActivity registers a recording, keyed by path, and returns its id.
func (s *Store) UpsertActivity(ctx context.Context, a Activity) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO activity (id, path, sport, start_time, finish_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (path) DO UPDATE
		SET sport = EXCLUDED.sport, start_time = EXCLUDED.start_time,
		    finish_time = EXCLUDED.finish_time
		RETURNING id`,
		a.ID, a.Path, a.Sport, a.Start, a.Finish).Scan(&id)
	return id, err
}

// ReplaceStatistics atomically replaces an activity's statistic mapping.
// Values land in one transaction: a failed computation never leaves a
// partial mapping behind.
func (s *Store) ReplaceStatistics(ctx context.Context, id uuid.UUID, values map[string]float64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM activity_statistic WHERE activity_id = $1`, id); err != nil {
		return err
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(`INSERT INTO activity_statistic (activity_id, name, value) VALUES ($1, $2, $3)`,
			id, name, values[name])
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE activity SET computed_at = now() WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Statistics returns an activity's statistic mapping, empty when none has
// been computed yet.
func (s *Store) Statistics(ctx context.Context, id uuid.UUID) (map[string]float64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, value FROM activity_statistic WHERE activity_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, rows.Err()
}

// Activities lists recordings, newest first.
func (s *Store) Activities(ctx context.Context, limit, offset int) ([]Activity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, path, sport, start_time, finish_time, computed_at
		FROM activity ORDER BY start_time DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Path, &a.Sport, &a.Start, &a.Finish, &a.ComputedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Activity fetches one recording by id.
func (s *Store) Activity(ctx context.Context, id uuid.UUID) (Activity, error) {
	var a Activity
	err := s.pool.QueryRow(ctx, `
		SELECT id, path, sport, start_time, finish_time, computed_at
		FROM activity WHERE id = $1`, id).
		Scan(&a.ID, &a.Path, &a.Sport, &a.Start, &a.Finish, &a.ComputedAt)
	return a, err
}

// KnownPaths returns the set of paths already registered.
func (s *Store) KnownPaths(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT path FROM activity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		out[path] = true
	}
	return out, rows.Err()
}
