// Package store keeps finished tournament runs in a SQLite database so
// they can be re-ranked or compared later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/payoff"
)

var ErrRunNotFound = errors.New("run not found")

// Run is the metadata of one stored tournament.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Seed        uint64
	Simulations int
	Rounds      int
	Strategies  []string
	Payoff      payoff.Matrix
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; sqlite serializes them anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			seed TEXT NOT NULL,
			simulations INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			strategies TEXT NOT NULL,
			reward INTEGER NOT NULL,
			temptation INTEGER NOT NULL,
			sucker INTEGER NOT NULL,
			punishment INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			player_a TEXT NOT NULL,
			player_b TEXT NOT NULL,
			simulation INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			score_a INTEGER NOT NULL,
			score_b INTEGER NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_match_results_run_id ON match_results(run_id)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// SaveRun stores the run and all of its results in one transaction. A
// missing run ID is filled in with a new UUID.
func (s *Store) SaveRun(ctx context.Context, run *Run, results []game.MatchResult) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return retry.Do(
		func() error { return s.saveRun(ctx, run, results) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(100*time.Millisecond),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n).Str("run", run.ID).Msg("retrying-save")
		}),
	)
}

func (s *Store) saveRun(ctx context.Context, run *Run, results []game.MatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
		id, created_at, seed, simulations, rounds, strategies,
		reward, temptation, sucker, punishment
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Unix(), strconv.FormatUint(run.Seed, 10),
		run.Simulations, run.Rounds, strings.Join(run.Strategies, ","),
		run.Payoff.Reward, run.Payoff.Temptation, run.Payoff.Sucker, run.Payoff.Punishment)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO match_results (
		run_id, player_a, player_b, simulation, rounds, score_a, score_b
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, run.ID, r.PlayerA, r.PlayerB, r.Simulation,
			r.Rounds, r.ScoreA, r.ScoreB); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return tx.Commit()
}

const runColumns = `id, created_at, seed, simulations, rounds, strategies,
	reward, temptation, sucker, punishment`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r          Run
		created    int64
		seed       string
		strategies string
	)
	err := row.Scan(&r.ID, &created, &seed, &r.Simulations, &r.Rounds, &strategies,
		&r.Payoff.Reward, &r.Payoff.Temptation, &r.Payoff.Sucker, &r.Payoff.Punishment)
	if err != nil {
		return r, err
	}
	r.CreatedAt = time.Unix(created, 0)
	if r.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return r, fmt.Errorf("bad seed %q: %w", seed, err)
	}
	if strategies != "" {
		r.Strategies = strings.Split(strategies, ",")
	}
	return r, nil
}

func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// ListRuns returns every stored run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadResults returns the results of a run in the order they were saved.
func (s *Store) LoadResults(ctx context.Context, runID string) ([]game.MatchResult, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT player_a, player_b, simulation, rounds, score_a, score_b
		FROM match_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []game.MatchResult{}
	for rows.Next() {
		var r game.MatchResult
		if err := rows.Scan(&r.PlayerA, &r.PlayerB, &r.Simulation, &r.Rounds, &r.ScoreA, &r.ScoreB); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
