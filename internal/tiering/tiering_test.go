package tiering

import (
	"testing"

	"github.com/fabricwire/rewire/internal/domain/netstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *Config {
	return &Config{
		NamingRules: []Rule{
			{Pattern: `^core-\d+$`, Tier: "core"},
			{Pattern: `^agg-\d+$`, Tier: "agg"},
			{Pattern: `^edge-\d+$`, Tier: "edge"},
			{Pattern: `^host-\d+$`, Tier: "host"},
		},
		ManualOverrides: map[string]string{
			"legacy-spine-1": "core",
		},
	}
}

func TestClassifyByNamingRule(t *testing.T) {
	c := sampleConfig()

	tier, err := c.Classify("agg-13")
	require.NoError(t, err)
	assert.Equal(t, netstate.Agg, tier)
}

func TestClassifyManualOverrideWins(t *testing.T) {
	c := sampleConfig()
	c.NamingRules = append(c.NamingRules, Rule{Pattern: `^legacy-.*$`, Tier: "edge"})

	tier, err := c.Classify("legacy-spine-1")
	require.NoError(t, err)
	assert.Equal(t, netstate.Core, tier)
}

func TestClassifyNoMatch(t *testing.T) {
	c := sampleConfig()
	_, err := c.Classify("mystery-box-1")
	assert.Error(t, err)
}

func TestClassifyBadRuleTier(t *testing.T) {
	c := &Config{NamingRules: []Rule{{Pattern: `.*`, Tier: "nonsense"}}}
	_, err := c.Classify("anything")
	assert.Error(t, err)
}
