// Package neo4j is a Store backed by Neo4j, representing switches as
// :Switch nodes and links as :WIRED relationships so the audit mirror can
// be browsed and queried as a graph, not just replayed as a log.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/fabricwire/rewire/internal/store"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Store struct {
	driver neo4j.DriverWithContext
	config *Config
}

func New(config *Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Neo4j configuration: %w", err)
	}

	driver, err := neo4j.NewDriverWithContext(
		config.URI,
		neo4j.BasicAuth(config.Username, config.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	return &Store{driver: driver, config: config}, nil
}

func (s *Store) Close() error { return s.driver.Close(context.Background()) }

func (s *Store) Health(ctx context.Context) error { return s.driver.VerifyConnectivity(ctx) }

// Migrate creates the uniqueness constraints the query patterns below rely
// on. Neo4j has no migration ledger of its own; constraints are idempotent.
func (s *Store) Migrate() error {
	ctx := context.Background()
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.config.Database})
	defer session.Close(ctx)

	constraints := []string{
		`CREATE CONSTRAINT switch_id IF NOT EXISTS FOR (s:Switch) REQUIRE s.id IS UNIQUE`,
		`CREATE CONSTRAINT expansion_id IF NOT EXISTS FOR (e:Expansion) REQUIRE e.id IS UNIQUE`,
	}
	for _, c := range constraints {
		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, c, nil)
		}); err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}
	return nil
}

func (s *Store) RecordSwitch(ctx context.Context, rec store.SwitchRecord) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.config.Database})
	defer session.Close(ctx)

	query := `
		MERGE (s:Switch {id: $id})
		SET s.tier = $tier, s.nports = $nports, s.created_at = datetime($created_at)
	`
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, map[string]any{
			"id":         rec.ID,
			"tier":       rec.Tier,
			"nports":     rec.NPorts,
			"created_at": rec.CreatedAt.Format(time.RFC3339),
		})
	})
	return err
}

func (s *Store) RecordLink(ctx context.Context, rec store.LinkRecord) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.config.Database})
	defer session.Close(ctx)

	query := `
		MATCH (a:Switch {id: $a})
		MATCH (b:Switch {id: $b})
		CREATE (a)-[:WIRED {id: $id, op: $op, created_at: datetime($created_at)}]->(b)
	`
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, map[string]any{
			"a":          rec.A,
			"b":          rec.B,
			"id":         rec.ID,
			"op":         rec.Op,
			"created_at": rec.CreatedAt.Format(time.RFC3339),
		})
	})
	return err
}

func (s *Store) RecordExpansion(ctx context.Context, rec store.ExpansionRecord) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.config.Database})
	defer session.Close(ctx)

	query := `
		MERGE (e:Expansion {id: $id})
		SET e.level = $level, e.nports = $nports, e.new_switch_id = $new_switch_id,
		    e.action_count = $action_count, e.created_at = datetime($created_at)
		WITH e
		MATCH (s:Switch {id: $new_switch_id})
		MERGE (e)-[:ADDED]->(s)
	`
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, map[string]any{
			"id":            rec.ID,
			"level":         rec.Level,
			"nports":        rec.NPorts,
			"new_switch_id": rec.NewSwitchID,
			"action_count":  rec.ActionCount,
			"created_at":    rec.CreatedAt.Format(time.RFC3339),
		})
	})
	return err
}

func (s *Store) ListSwitches(ctx context.Context) ([]store.SwitchRecord, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.config.Database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (s:Switch) RETURN s ORDER BY s.id`, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list switches: %w", err)
	}

	records := result.([]*neo4j.Record)
	out := make([]store.SwitchRecord, 0, len(records))
	for _, rec := range records {
		raw, ok := rec.Get("s")
		if !ok {
			continue
		}
		node := raw.(neo4j.Node)
		sw, err := switchFromNode(node)
		if err != nil {
			continue
		}
		out = append(out, sw)
	}
	return out, nil
}

func (s *Store) ListExpansions(ctx context.Context) ([]store.ExpansionRecord, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.config.Database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (e:Expansion) RETURN e ORDER BY e.created_at`, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expansions: %w", err)
	}

	records := result.([]*neo4j.Record)
	out := make([]store.ExpansionRecord, 0, len(records))
	for _, rec := range records {
		raw, ok := rec.Get("e")
		if !ok {
			continue
		}
		node := raw.(neo4j.Node)
		exp, err := expansionFromNode(node)
		if err != nil {
			continue
		}
		out = append(out, exp)
	}
	return out, nil
}

func switchFromNode(node neo4j.Node) (store.SwitchRecord, error) {
	props := node.Props
	id, ok := props["id"].(int64)
	if !ok {
		return store.SwitchRecord{}, fmt.Errorf("switch id is not an integer")
	}
	sw := store.SwitchRecord{ID: int(id)}
	if tier, ok := props["tier"].(string); ok {
		sw.Tier = tier
	}
	if nports, ok := props["nports"].(int64); ok {
		sw.NPorts = int(nports)
	}
	if ts, ok := props["created_at"].(time.Time); ok {
		sw.CreatedAt = ts
	}
	return sw, nil
}

func expansionFromNode(node neo4j.Node) (store.ExpansionRecord, error) {
	props := node.Props
	id, ok := props["id"].(string)
	if !ok {
		return store.ExpansionRecord{}, fmt.Errorf("expansion id is not a string")
	}
	exp := store.ExpansionRecord{ID: id}
	if level, ok := props["level"].(string); ok {
		exp.Level = level
	}
	if nports, ok := props["nports"].(int64); ok {
		exp.NPorts = int(nports)
	}
	if sid, ok := props["new_switch_id"].(int64); ok {
		exp.NewSwitchID = int(sid)
	}
	if ac, ok := props["action_count"].(int64); ok {
		exp.ActionCount = int(ac)
	}
	if ts, ok := props["created_at"].(time.Time); ok {
		exp.CreatedAt = ts
	}
	return exp, nil
}
