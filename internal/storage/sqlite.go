// Package storage provides SQLite-based persistence for recorded replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/replay"
)

// DefaultPath is where the replay database lives unless overridden.
const DefaultPath = "~/.flappy/replays.db"

// ErrNotFound is returned when a replay ID does not exist.
var ErrNotFound = errors.New("storage: replay not found")

// Store manages the SQLite database connection for replay persistence.
type Store struct {
	db *sql.DB
}

// ReplaySummary is a replay without its events, for listings.
type ReplaySummary struct {
	ID        int64
	GameID    string
	Seed      int64
	Frames    int
	Phase     core.Phase
	Score     int
	EndReason flappy.EndReason
	Events    int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			config_yaml TEXT NOT NULL,
			frames INTEGER NOT NULL,
			final_phase TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL DEFAULT 'none',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_game_id ON replays(game_id);

		CREATE TABLE IF NOT EXISTS replay_events (
			replay_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			frame INTEGER NOT NULL,
			action TEXT NOT NULL,
			x REAL NOT NULL DEFAULT 0,
			y REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (replay_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay stores a replay with all its events in one transaction.
// Returns the ID of the inserted record.
func (s *Store) SaveReplay(r replay.Replay) (int64, error) {
	cfgYAML, err := config.Marshal(r.Config)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode replay config: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO replays (game_id, seed, config_yaml, frames, final_phase, score, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.GameID,
		r.Seed,
		string(cfgYAML),
		r.Outcome.Frames,
		r.Outcome.Phase.String(),
		r.Outcome.Score,
		r.Outcome.EndReason.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO replay_events (replay_id, seq, frame, action, x, y) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare event insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range r.Events {
		if _, err := stmt.Exec(id, i, e.Frame, e.Action.String(), e.X, e.Y); err != nil {
			return 0, fmt.Errorf("storage: cannot save event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit replay: %w", err)
	}

	return id, nil
}

// Replay loads a replay and its events. Returns ErrNotFound for unknown IDs.
func (s *Store) Replay(id int64) (replay.Replay, error) {
	var (
		r         replay.Replay
		cfgYAML   string
		phase     string
		reason    string
		createdAt any
	)

	err := s.db.QueryRow(
		`SELECT id, game_id, seed, config_yaml, frames, final_phase, score, end_reason, created_at
		 FROM replays
		 WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.GameID, &r.Seed, &cfgYAML, &r.Outcome.Frames, &phase, &r.Outcome.Score, &reason, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return replay.Replay{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return replay.Replay{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	r.Config, err = config.Parse([]byte(cfgYAML))
	if err != nil {
		return replay.Replay{}, fmt.Errorf("storage: replay %d has a bad config: %w", id, err)
	}
	r.Outcome.Phase, _ = core.ParsePhase(phase)
	r.Outcome.EndReason = flappy.ParseEndReason(reason)
	r.CreatedAt = parseTime(createdAt)

	r.Events, err = s.events(id)
	if err != nil {
		return replay.Replay{}, err
	}

	return r, nil
}

// events loads the events of one replay in recorded order.
func (s *Store) events(id int64) ([]replay.Event, error) {
	rows, err := s.db.Query(
		`SELECT frame, action, x, y
		 FROM replay_events
		 WHERE replay_id = ?
		 ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var events []replay.Event
	for rows.Next() {
		var e replay.Event
		var action string
		if err := rows.Scan(&e.Frame, &action, &e.X, &e.Y); err != nil {
			return nil, fmt.Errorf("storage: cannot scan event: %w", err)
		}
		e.Action = core.ParseAction(action)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return events, nil
}

// ListReplays returns the most recent replays, newest first.
func (s *Store) ListReplays(limit int) ([]ReplaySummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.game_id, r.seed, r.frames, r.final_phase, r.score, r.end_reason, r.created_at,
		        (SELECT COUNT(*) FROM replay_events e WHERE e.replay_id = r.id)
		 FROM replays r
		 ORDER BY r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var summaries []ReplaySummary
	for rows.Next() {
		var (
			sum       ReplaySummary
			phase     string
			reason    string
			createdAt any
		)
		if err := rows.Scan(&sum.ID, &sum.GameID, &sum.Seed, &sum.Frames, &phase, &sum.Score, &reason, &createdAt, &sum.Events); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sum.Phase, _ = core.ParsePhase(phase)
		sum.EndReason = flappy.ParseEndReason(reason)
		sum.CreatedAt = parseTime(createdAt)
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return summaries, nil
}

// DeleteReplay removes a replay and its events. Returns ErrNotFound for
// unknown IDs.
func (s *Store) DeleteReplay(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM replay_events WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete events: %w", err)
	}

	result, err := tx.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
