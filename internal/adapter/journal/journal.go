// Package journal records fixture seeding activity in a local SQLite
// database. Every recorded event gets a monotonically increasing sequence
// number from the database, so the order in which objects were created can
// be replayed exactly without relying on wall-clock timestamps.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Journal persists seeding runs and their ordered events.
type Journal struct {
	db *sql.DB
}

// Seed is one fixture seeding run.
type Seed struct {
	SeedID     string
	Owner      string
	Repo       string
	PullNumber int
	StartedAt  time.Time
}

// Event is a single recorded step of a seeding run. Sequence is assigned
// by the database and is strictly increasing across all events.
type Event struct {
	Sequence   int64
	SeedID     string
	Kind       string
	ObjectID   string
	RecordedAt time.Time
}

// Event kinds recorded during seeding.
const (
	EventBlob       = "blob"
	EventTree       = "tree"
	EventCommit     = "commit"
	EventRef        = "ref"
	EventPull       = "pull"
	EventComment    = "comment"
	EventRepository = "repository"
)

// New opens (or creates) a journal at the given path.
// Use ":memory:" for an in-memory journal (useful for testing).
func New(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	j := &Journal{db: db}

	if err := j.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return j, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (j *Journal) createSchema() error {
	schema := `
	-- One row per fixture seeding run
	CREATE TABLE IF NOT EXISTS seeds (
		seed_id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		repo TEXT NOT NULL,
		pull_number INTEGER DEFAULT 0,
		started_at INTEGER NOT NULL
	);

	-- Ordered record of every object created during a seed.
	-- The AUTOINCREMENT sequence is the ordering authority.
	CREATE TABLE IF NOT EXISTS events (
		sequence INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		object_id TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		FOREIGN KEY (seed_id) REFERENCES seeds(seed_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_events_seed ON events(seed_id);
	CREATE INDEX IF NOT EXISTS idx_seeds_started ON seeds(started_at DESC);
	`

	_, err := j.db.Exec(schema)
	return err
}

// StartSeed records the beginning of a seeding run.
func (j *Journal) StartSeed(ctx context.Context, seed Seed) error {
	query := `
		INSERT INTO seeds (seed_id, owner, repo, pull_number, started_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := j.db.ExecContext(ctx, query,
		seed.SeedID,
		seed.Owner,
		seed.Repo,
		seed.PullNumber,
		seed.StartedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to start seed: %w", err)
	}

	return nil
}

// SetPullNumber records the pull request number once it is known.
func (j *Journal) SetPullNumber(ctx context.Context, seedID string, pullNumber int) error {
	query := `UPDATE seeds SET pull_number = ? WHERE seed_id = ?`

	result, err := j.db.ExecContext(ctx, query, pullNumber, seedID)
	if err != nil {
		return fmt.Errorf("failed to update seed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("seed not found: %s", seedID)
	}

	return nil
}

// RecordEvent appends an event to a seed and returns its sequence number.
func (j *Journal) RecordEvent(ctx context.Context, seedID, kind, objectID string) (int64, error) {
	query := `
		INSERT INTO events (seed_id, kind, object_id, recorded_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := j.db.ExecContext(ctx, query, seedID, kind, objectID, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to record event: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get event sequence: %w", err)
	}

	return seq, nil
}

// GetSeed retrieves a seed by ID.
func (j *Journal) GetSeed(ctx context.Context, seedID string) (Seed, error) {
	query := `
		SELECT seed_id, owner, repo, pull_number, started_at
		FROM seeds
		WHERE seed_id = ?
	`

	var seed Seed
	var startedAt int64

	err := j.db.QueryRowContext(ctx, query, seedID).Scan(
		&seed.SeedID,
		&seed.Owner,
		&seed.Repo,
		&seed.PullNumber,
		&startedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return Seed{}, fmt.Errorf("seed not found: %s", seedID)
		}
		return Seed{}, fmt.Errorf("failed to get seed: %w", err)
	}

	seed.StartedAt = time.Unix(startedAt, 0)
	return seed, nil
}

// ListEvents returns the events of a seed in sequence order.
func (j *Journal) ListEvents(ctx context.Context, seedID string) ([]Event, error) {
	query := `
		SELECT sequence, seed_id, kind, object_id, recorded_at
		FROM events
		WHERE seed_id = ?
		ORDER BY sequence ASC
	`

	rows, err := j.db.QueryContext(ctx, query, seedID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var recordedAt int64

		if err := rows.Scan(
			&ev.Sequence,
			&ev.SeedID,
			&ev.Kind,
			&ev.ObjectID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ev.RecordedAt = time.Unix(recordedAt, 0)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
