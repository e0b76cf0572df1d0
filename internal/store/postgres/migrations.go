package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const createSwitchesTable = `
CREATE TABLE IF NOT EXISTS switches (
    id INTEGER PRIMARY KEY,
    tier TEXT NOT NULL,
    nports INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const createLinksTable = `
CREATE TABLE IF NOT EXISTS links (
    id TEXT PRIMARY KEY,
    switch_a INTEGER NOT NULL,
    switch_b INTEGER NOT NULL,
    op TEXT NOT NULL CHECK (op IN ('connect', 'disconnect')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const createExpansionsTable = `
CREATE TABLE IF NOT EXISTS expansions (
    id TEXT PRIMARY KEY,
    level TEXT NOT NULL,
    nports INTEGER NOT NULL,
    new_switch_id INTEGER NOT NULL,
    action_count INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_links_switch_a ON links(switch_a);
CREATE INDEX IF NOT EXISTS idx_links_switch_b ON links(switch_b);
CREATE INDEX IF NOT EXISTS idx_switches_tier ON switches(tier);
CREATE INDEX IF NOT EXISTS idx_expansions_level ON expansions(level);`

func RunMigrations(db *sqlx.DB) error {
	migrations := []string{
		createSwitchesTable,
		createLinksTable,
		createExpansionsTable,
		createIndexes,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", i+1, err)
		}
	}

	return nil
}
