// Package tiering classifies switch hostnames into netstate.Tier values by
// naming-rule pattern, for bulk-importing an existing fabric's inventory
// before the first expansion.
package tiering

import (
	"fmt"
	"os"
	"regexp"

	"github.com/fabricwire/rewire/internal/domain/netstate"
	"gopkg.in/yaml.v3"
)

// Rule maps hostnames matching Pattern to Tier (by name: "host", "edge",
// "agg", "core").
type Rule struct {
	Pattern string `yaml:"pattern"`
	Tier    string `yaml:"tier"`
}

// Config is a naming-rule classifier, loaded from YAML.
type Config struct {
	NamingRules     []Rule            `yaml:"naming_rules"`
	ManualOverrides map[string]string `yaml:"manual_overrides"`
}

// LoadConfig reads and parses a tiering rule file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tiering: failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("tiering: failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Classify returns the tier hostname belongs to: a manual override wins
// outright, otherwise the first matching naming rule, in file order.
func (c *Config) Classify(hostname string) (netstate.Tier, error) {
	if override, ok := c.ManualOverrides[hostname]; ok {
		t, ok := netstate.ParseTier(override)
		if !ok {
			return 0, fmt.Errorf("tiering: manual override %q for %q is not a valid tier", override, hostname)
		}
		return t, nil
	}

	for _, rule := range c.NamingRules {
		matched, err := regexp.MatchString(rule.Pattern, hostname)
		if err != nil {
			return 0, fmt.Errorf("tiering: invalid regex pattern %s: %w", rule.Pattern, err)
		}
		if !matched {
			continue
		}
		t, ok := netstate.ParseTier(rule.Tier)
		if !ok {
			return 0, fmt.Errorf("tiering: rule pattern %s maps to unknown tier %q", rule.Pattern, rule.Tier)
		}
		return t, nil
	}

	return 0, fmt.Errorf("tiering: no naming rule matches hostname %q", hostname)
}
