// Package channelstate persists which chat channels have translation
// switched on. The translation core never looks at it; callers consult the
// store before handing a message over.
package channelstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Toggle is the stored state of one channel
type Toggle struct {
	Channel   string
	Enabled   bool
	UpdatedAt time.Time
}

// Store is a SQLite backed channel toggle store. It is safe for concurrent
// use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS channel_toggles (
		channel text PRIMARY KEY,
		enabled integer NOT NULL,
		updated_at integer NOT NULL
	)`)
	return err
}

// Enabled reports whether translation is on for channel. Unknown channels
// are off.
func (s *Store) Enabled(ctx context.Context, channel string) (bool, error) {
	var enabled int
	err := s.db.QueryRowContext(ctx,
		`SELECT enabled FROM channel_toggles WHERE channel = ?`, channel).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read channel %s: %w", channel, err)
	}
	return enabled != 0, nil
}

// Set switches translation on or off for channel
func (s *Store) Set(ctx context.Context, channel string, enabled bool) error {
	if channel == "" {
		return errors.New("channel must not be empty")
	}

	flag := 0
	if enabled {
		flag = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO channel_toggles (channel, enabled, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(channel) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at`,
		channel, flag, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to update channel %s: %w", channel, err)
	}
	return nil
}

// List returns all known channels ordered by name
func (s *Store) List(ctx context.Context) ([]Toggle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT channel, enabled, updated_at FROM channel_toggles ORDER BY channel`)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var toggles []Toggle
	for rows.Next() {
		var (
			t       Toggle
			enabled int
			updated int64
		)
		if err := rows.Scan(&t.Channel, &enabled, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		t.Enabled = enabled != 0
		t.UpdatedAt = time.Unix(updated, 0)
		toggles = append(toggles, t)
	}

	return toggles, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
