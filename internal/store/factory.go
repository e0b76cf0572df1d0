package store

import (
	"fmt"

	"github.com/fabricwire/rewire/internal/store/inmemory"
	"github.com/fabricwire/rewire/internal/store/neo4j"
	"github.com/fabricwire/rewire/internal/store/postgres"
	"github.com/fabricwire/rewire/internal/store/sqlite"
)

// Config selects and configures one backend: a Type field plus one
// sub-config struct per backend.
type Config struct {
	Type     string          `yaml:"type"` // "inmemory", "sqlite", "postgres", or "neo4j"
	SQLite   sqlite.Config   `yaml:"sqlite"`
	Postgres postgres.Config `yaml:"postgres"`
	Neo4j    neo4j.Config    `yaml:"neo4j"`
}

// New constructs the configured Store backend and runs its migrations.
func New(config Config) (Store, error) {
	switch config.Type {
	case "", "inmemory":
		return inmemory.New(), nil
	case "sqlite":
		if err := config.SQLite.Validate(); err != nil {
			return nil, fmt.Errorf("invalid sqlite config: %w", err)
		}
		s, err := sqlite.New(config.SQLite)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
		}
		return s, nil
	case "postgres":
		if err := config.Postgres.Validate(); err != nil {
			return nil, fmt.Errorf("invalid postgres config: %w", err)
		}
		s, err := postgres.New(config.Postgres)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to migrate postgres store: %w", err)
		}
		return s, nil
	case "neo4j":
		if err := config.Neo4j.Validate(); err != nil {
			return nil, fmt.Errorf("invalid neo4j config: %w", err)
		}
		s, err := neo4j.New(&config.Neo4j)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to migrate neo4j store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
