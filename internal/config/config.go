// Package config loads the top-level YAML configuration tying together the
// orchestrator's tunables, the audit store backend, and the tiering rule
// file path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fabricwire/rewire/internal/store"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Store        store.Config       `yaml:"store"`
	TieringPath  string             `yaml:"tiering_path"`
}

type OrchestratorConfig struct {
	InitialPriority int   `yaml:"initial_priority"`
	Pace            int   `yaml:"pace"`
	RNGSeed         int64 `yaml:"rng_seed"`
}

// LoadConfig reads and parses a config file, defaulting to config/rewire.yaml
// or the path named by REWIRE_CONFIG_PATH.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetDefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

func GetDefaultConfigPath() string {
	if path := os.Getenv("REWIRE_CONFIG_PATH"); path != "" {
		return path
	}

	wd, _ := os.Getwd()
	return filepath.Join(wd, "config", "rewire.yaml")
}
