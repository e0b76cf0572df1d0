// Package sqlite is a Store backed by SQLite, covering the fixed switches/
// links/expansions tables this fabric needs.
package sqlite

import (
	"context"
	"fmt"

	"github.com/fabricwire/rewire/internal/store"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sqlx.DB
}

func New(config Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("sqlite3", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if config.Path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Health(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Migrate() error { return RunMigrations(s.db) }

func (s *Store) RecordSwitch(ctx context.Context, rec store.SwitchRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO switches (id, tier, nports, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET tier = excluded.tier, nports = excluded.nports`,
		rec.ID, rec.Tier, rec.NPorts, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record switch: %w", err)
	}
	return nil
}

func (s *Store) RecordLink(ctx context.Context, rec store.LinkRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO links (id, switch_a, switch_b, op, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.A, rec.B, rec.Op, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record link: %w", err)
	}
	return nil
}

func (s *Store) RecordExpansion(ctx context.Context, rec store.ExpansionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expansions (id, level, nports, new_switch_id, action_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Level, rec.NPorts, rec.NewSwitchID, rec.ActionCount, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record expansion: %w", err)
	}
	return nil
}

func (s *Store) ListSwitches(ctx context.Context) ([]store.SwitchRecord, error) {
	var out []store.SwitchRecord
	if err := s.db.SelectContext(ctx, &out, `SELECT id, tier, nports, created_at FROM switches ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list switches: %w", err)
	}
	return out, nil
}

func (s *Store) ListExpansions(ctx context.Context) ([]store.ExpansionRecord, error) {
	var out []store.ExpansionRecord
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, level, nports, new_switch_id, action_count, created_at FROM expansions ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to list expansions: %w", err)
	}
	return out, nil
}
