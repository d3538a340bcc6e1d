// Package storage persists per-mode high scores and recent run summaries
// in SQLite, using the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/skyline-sprint/internal/engine"
)

// RecentRunLimit is how many run summaries are kept per mode.
const RecentRunLimit = 5

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is a single high score record.
type ScoreEntry struct {
	ID        int64
	Mode      string
	Seed      uint32
	Score     int
	CreatedAt time.Time
}

// RunRecord is a stored run summary.
type RunRecord struct {
	ID            int64
	Mode          string
	Seed          uint32
	Score         int
	Shards        int
	Elapsed       float64
	MaxMultiplier int
	PerfectDodges int
	Obstacles     int
	Completed     bool
	CreatedAt     time.Time
}

// ModeStats aggregates all scores recorded for one mode.
type ModeStats struct {
	Mode       string
	RunsCount  int
	HighScore  int
	AvgScore   float64
	TotalScore int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// Parent directories are created as needed and migrations are applied.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_mode ON scores(mode);
		CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(mode, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			shards INTEGER NOT NULL,
			elapsed REAL NOT NULL,
			max_multiplier INTEGER NOT NULL,
			perfect_dodges INTEGER NOT NULL,
			obstacles INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode, id DESC);
	`)
	if err != nil {
		return fmt.Errorf("storage: migration failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ErrUnranked is returned by RecordRun for practice runs, such as a daily
// challenge replayed on a chosen seed. Nothing is written.
var ErrUnranked = errors.New("storage: run is not ranked")

// RecordRun stores a finished run: its score goes to the scores table and
// its summary to the runs table, which keeps only the newest RecentRunLimit
// rows per mode.
func (s *Store) RecordRun(sum engine.Summary) error {
	if !sum.Ranked() {
		return ErrUnranked
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	mode := string(sum.Mode)
	if _, err := tx.Exec(
		"INSERT INTO scores (mode, seed, score) VALUES (?, ?, ?)",
		mode, int64(sum.Seed), sum.Score,
	); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	completed := 0
	if sum.Completed {
		completed = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO runs
		 (mode, seed, score, shards, elapsed, max_multiplier, perfect_dodges, obstacles, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mode, int64(sum.Seed), sum.Score, sum.Shards, sum.Elapsed,
		sum.MaxMultiplier, sum.PerfectDodges, sum.Obstacles, completed,
	); err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM runs
		 WHERE mode = ? AND id NOT IN (
			SELECT id FROM runs WHERE mode = ? ORDER BY id DESC LIMIT ?
		 )`,
		mode, mode, RecentRunLimit,
	); err != nil {
		return fmt.Errorf("storage: cannot trim runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return nil
}

// TopScores returns the highest scores for a mode, best first.
// A non-positive limit defaults to 10.
func (s *Store) TopScores(mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, seed, score, created_at
		 FROM scores
		 WHERE mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var seed int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Mode, &seed, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Seed = uint32(seed)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the best score for the mode, or 0 when none exist.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE mode = ?", mode).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// RecentRuns returns the stored run summaries for a mode, newest first.
func (s *Store) RecentRuns(mode string) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, mode, seed, score, shards, elapsed, max_multiplier,
		        perfect_dodges, obstacles, completed, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY id DESC`,
		mode,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var seed int64
		var completed int
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Mode, &seed, &r.Score, &r.Shards, &r.Elapsed, &r.MaxMultiplier,
			&r.PerfectDodges, &r.Obstacles, &completed, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan run: %w", err)
		}
		r.Seed = uint32(seed)
		r.Completed = completed != 0
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// ClearMode deletes every score and run recorded for the mode.
func (s *Store) ClearMode(mode string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats aggregates the scores table for every mode that has been played.
func (s *Store) Stats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var m ModeStats
		var lastPlayed any
		if err := rows.Scan(&m.Mode, &m.RunsCount, &m.HighScore, &m.AvgScore, &m.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.Mode] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime accepts both driver representations of a DATETIME column.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
