// Package store keeps benchmark runs and their matches in sqlite so
// planner configurations can be compared across runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"haliteai/internal/sim"
)

// Run is one benchmark invocation
type Run struct {
	ID        string
	Planner   string
	Config    []byte // YAML
	StartedAt time.Time
	Aggregate sim.AggregatedStats
}

// NewRun creates a run with a fresh id
func NewRun(planner string, configYAML []byte) Run {
	return Run{
		ID:        uuid.NewString(),
		Planner:   planner,
		Config:    configYAML,
		StartedAt: time.Now().UTC(),
	}
}

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// SaveRun inserts or updates a run and its aggregate
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	a := run.Aggregate
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, planner, config, started_at, matches, banked_mean, banked_std, banked_max, exhausted_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			matches = excluded.matches,
			banked_mean = excluded.banked_mean,
			banked_std = excluded.banked_std,
			banked_max = excluded.banked_max,
			exhausted_rate = excluded.exhausted_rate
	`, run.ID, run.Planner, run.Config, run.StartedAt.Format(time.RFC3339Nano),
		a.NumEpisodes, a.BankedMean, a.BankedStd, a.BankedMax, a.ExhaustedRate)
	return err
}

// GetRun loads a run by id
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	var (
		run     Run
		started string
	)
	err = db.QueryRowContext(ctx, `
		SELECT id, planner, config, started_at, matches, banked_mean, banked_std, banked_max, exhausted_rate
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Planner, &run.Config, &started,
		&run.Aggregate.NumEpisodes, &run.Aggregate.BankedMean, &run.Aggregate.BankedStd,
		&run.Aggregate.BankedMax, &run.Aggregate.ExhaustedRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// SaveEpisodes stores the matches of a run in one transaction
func (s *SQLiteStore) SaveEpisodes(ctx context.Context, runID string, episodes []sim.EpisodeStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ep := range episodes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO episodes (run_id, seed, turns, banked, collected, deposited, spent,
				ships_built, ships_lost, decisions, exhausted, failures, mean_generations)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, seed) DO UPDATE SET
				turns = excluded.turns,
				banked = excluded.banked,
				collected = excluded.collected,
				deposited = excluded.deposited,
				spent = excluded.spent,
				ships_built = excluded.ships_built,
				ships_lost = excluded.ships_lost,
				decisions = excluded.decisions,
				exhausted = excluded.exhausted,
				failures = excluded.failures,
				mean_generations = excluded.mean_generations
		`, runID, ep.Seed, ep.Turns, ep.Banked, ep.Collected, ep.Deposited, ep.Spent,
			ep.ShipsBuilt, ep.ShipsLost, ep.Decisions, ep.Exhausted, ep.Failures, ep.MeanGenerations)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListEpisodes returns the matches of a run ordered by seed
func (s *SQLiteStore) ListEpisodes(ctx context.Context, runID string) ([]sim.EpisodeStats, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT seed, turns, banked, collected, deposited, spent,
			ships_built, ships_lost, decisions, exhausted, failures, mean_generations
		FROM episodes WHERE run_id = ? ORDER BY seed
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.EpisodeStats
	for rows.Next() {
		var ep sim.EpisodeStats
		if err := rows.Scan(&ep.Seed, &ep.Turns, &ep.Banked, &ep.Collected, &ep.Deposited, &ep.Spent,
			&ep.ShipsBuilt, &ep.ShipsLost, &ep.Decisions, &ep.Exhausted, &ep.Failures, &ep.MeanGenerations); err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			planner TEXT NOT NULL,
			config BLOB NOT NULL,
			started_at TEXT NOT NULL,
			matches INTEGER NOT NULL,
			banked_mean REAL NOT NULL,
			banked_std REAL NOT NULL,
			banked_max REAL NOT NULL,
			exhausted_rate REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL REFERENCES runs(id),
			seed INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			banked INTEGER NOT NULL,
			collected INTEGER NOT NULL,
			deposited INTEGER NOT NULL,
			spent INTEGER NOT NULL,
			ships_built INTEGER NOT NULL,
			ships_lost INTEGER NOT NULL,
			decisions INTEGER NOT NULL,
			exhausted INTEGER NOT NULL,
			failures INTEGER NOT NULL,
			mean_generations REAL NOT NULL,
			PRIMARY KEY (run_id, seed)
		);
	`)
	return err
}
