package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/tspmeta/tsp"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a single SQLite file.
type SQLite struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path and its schema.
// The special path ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("store: sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("store: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// One connection: SQLite serialises writers anyway, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err = db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if err = createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLite{path: path, db: db}, nil
}

// Path returns the database location.
func (s *SQLite) Path() string { return s.path }

// SaveRun upserts r; the tour is stored as a JSON array.
func (s *SQLite) SaveRun(ctx context.Context, r RunRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}
	tour, err := json.Marshal(r.Tour)
	if err != nil {
		return fmt.Errorf("store: encode tour %s: %w", r.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, instance, algorithm, run, seed, cities, cost, iterations,
			stagnated, polished, started_ns, duration_ns, tour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			instance = excluded.instance,
			algorithm = excluded.algorithm,
			run = excluded.run,
			seed = excluded.seed,
			cities = excluded.cities,
			cost = excluded.cost,
			iterations = excluded.iterations,
			stagnated = excluded.stagnated,
			polished = excluded.polished,
			started_ns = excluded.started_ns,
			duration_ns = excluded.duration_ns,
			tour = excluded.tour
	`, r.ID.String(), r.Instance, r.Algorithm.String(), r.Run, r.Seed, r.Cities, r.Cost, r.Iterations,
		r.Stagnated, r.Polished, r.Started.UnixNano(), int64(r.Duration), string(tour))
	if err != nil {
		return fmt.Errorf("store: save run %s: %w", r.ID, err)
	}
	return nil
}

// ListRuns queries runs matching f.
func (s *SQLite) ListRuns(ctx context.Context, f Filter) ([]RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if f.Instance != "" {
		where = append(where, "instance = ?")
		args = append(args, f.Instance)
	}
	if len(f.Algorithms) > 0 {
		marks := make([]string, len(f.Algorithms))
		for i, a := range f.Algorithms {
			marks[i] = "?"
			args = append(args, a.String())
		}
		where = append(where, "algorithm IN ("+strings.Join(marks, ", ")+")")
	}
	q := `SELECT id, instance, algorithm, run, seed, cities, cost, iterations,
		stagnated, polished, started_ns, duration_ns, tour FROM runs`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY cost, started_ns, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var (
		r         RunRecord
		id, alg   string
		startedNs int64
		durNs     int64
		tour      string
		err       error
	)
	if err = rows.Scan(&id, &r.Instance, &alg, &r.Run, &r.Seed, &r.Cities, &r.Cost, &r.Iterations,
		&r.Stagnated, &r.Polished, &startedNs, &durNs, &tour); err != nil {
		return RunRecord{}, fmt.Errorf("store: scan run: %w", err)
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return RunRecord{}, fmt.Errorf("store: run id %q: %w", id, err)
	}
	if r.Algorithm, err = tsp.ParseAlgorithm(alg); err != nil {
		return RunRecord{}, fmt.Errorf("store: run %s: %w", id, err)
	}
	if err = json.Unmarshal([]byte(tour), &r.Tour); err != nil {
		return RunRecord{}, fmt.Errorf("store: decode tour %s: %w", id, err)
	}
	r.Started = time.Unix(0, startedNs).UTC()
	r.Duration = time.Duration(durNs)
	return r, nil
}

// Close closes the database. It is safe to call more than once.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLite) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			instance TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			run INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			cities INTEGER NOT NULL,
			cost REAL NOT NULL,
			iterations INTEGER NOT NULL,
			stagnated INTEGER NOT NULL,
			polished INTEGER NOT NULL,
			started_ns INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			tour TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_instance_algorithm ON runs (instance, algorithm);
	`)
	return err
}
