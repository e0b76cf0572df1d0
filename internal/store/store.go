// Package store defines the audit log / read-model mirror for the fabric.
// The live Network State is in-process and in-memory; a Store is never the
// source of truth for routing decisions. It records switches, links, and
// expansion events as they happen, and serves read-only export queries.
package store

import (
	"context"
	"time"
)

// SwitchRecord is one row of the switch inventory mirror.
type SwitchRecord struct {
	ID        int       `db:"id"`
	Tier      string    `db:"tier"`
	NPorts    int       `db:"nports"`
	CreatedAt time.Time `db:"created_at"`
}

// LinkRecord is one row of the link audit log: every connect or disconnect
// applied by an orchestrator action.
type LinkRecord struct {
	ID        string    `db:"id"`
	A         int       `db:"switch_a"`
	B         int       `db:"switch_b"`
	Op        string    `db:"op"` // "connect" or "disconnect"
	CreatedAt time.Time `db:"created_at"`
}

// ExpansionRecord is one row per Expand call.
type ExpansionRecord struct {
	ID          string    `db:"id"`
	Level       string    `db:"level"`
	NPorts      int       `db:"nports"`
	NewSwitchID int       `db:"new_switch_id"`
	ActionCount int       `db:"action_count"`
	CreatedAt   time.Time `db:"created_at"`
}

// Store is the audit log and read-model mirror a configured backend must
// implement.
type Store interface {
	RecordSwitch(ctx context.Context, rec SwitchRecord) error
	RecordLink(ctx context.Context, rec LinkRecord) error
	RecordExpansion(ctx context.Context, rec ExpansionRecord) error

	ListSwitches(ctx context.Context) ([]SwitchRecord, error)
	ListExpansions(ctx context.Context) ([]ExpansionRecord, error)

	Health(ctx context.Context) error
	Migrate() error
	Close() error
}

// RecordApplied writes a switch inventory row and then each of the given
// link rows for one expansion event, stopping at the first error. The link
// rows are built by the caller; expansionID is not written to any row.
func RecordApplied(ctx context.Context, s Store, expansionID string, sw SwitchRecord, links []LinkRecord) error {
	if err := s.RecordSwitch(ctx, sw); err != nil {
		return err
	}
	for _, l := range links {
		if err := s.RecordLink(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
