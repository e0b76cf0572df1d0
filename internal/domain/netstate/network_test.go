package netstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildReferenceFatTree constructs a small reference fat-tree topology:
// hosts 1..8 (4 ports), edges 9..12 (4 ports), aggs 13..16 (5 ports),
// cores 17..18 (6 ports).
func buildReferenceFatTree(t *testing.T) *Network {
	t.Helper()
	n := New()

	for sid := 1; sid <= 8; sid++ {
		require.NoError(t, n.AddSwitch(SwitchID(sid), 4, Host))
	}
	for sid := 9; sid <= 12; sid++ {
		require.NoError(t, n.AddSwitch(SwitchID(sid), 4, Edge))
	}
	for sid := 13; sid <= 16; sid++ {
		require.NoError(t, n.AddSwitch(SwitchID(sid), 5, Agg))
	}
	for sid := 17; sid <= 18; sid++ {
		require.NoError(t, n.AddSwitch(SwitchID(sid), 6, Core))
	}

	hostEdge := [][2]int{{1, 9}, {2, 9}, {3, 10}, {4, 10}, {5, 11}, {6, 11}, {7, 12}, {8, 12}}
	for _, p := range hostEdge {
		require.NoError(t, n.AddLink(SwitchID(p[0]), SwitchID(p[1]), 1))
	}

	edgeAgg := [][2]int{{13, 9}, {14, 9}, {13, 10}, {14, 10}, {15, 11}, {16, 11}, {15, 12}, {16, 12}}
	for _, p := range edgeAgg {
		require.NoError(t, n.AddLink(SwitchID(p[0]), SwitchID(p[1]), 1))
	}

	aggCore := []struct {
		a, c, count int
	}{
		{13, 17, 2}, {14, 17, 1}, {13, 18, 1}, {14, 18, 2},
		{15, 17, 2}, {16, 17, 1}, {15, 18, 1}, {16, 18, 2},
	}
	for _, p := range aggCore {
		require.NoError(t, n.AddLink(SwitchID(p.a), SwitchID(p.c), p.count))
	}

	return n
}

func TestReferenceFatTreeInvariants(t *testing.T) {
	n := buildReferenceFatTree(t)

	// P1: 0 <= nlinks <= nports for every switch.
	for _, sw := range n.switches {
		assert.GreaterOrEqual(t, sw.NLinks, 0)
		assert.LessOrEqual(t, sw.NLinks, sw.NPorts)
	}

	// P2: link symmetry.
	for _, sw := range n.switches {
		for neighbor, ports := range sw.links {
			other := n.switches[neighbor]
			assert.Equal(t, len(ports), len(other.links[sw.ID]))
			assert.Equal(t, len(ports), n.Mult(sw.ID, neighbor))
		}
	}

	// P3: uplink accounting.
	for _, sw := range n.switches {
		want := 0
		for neighbor, ports := range sw.links {
			if n.switches[neighbor].Tier > sw.Tier {
				want += len(ports)
			}
		}
		assert.Equal(t, want, sw.Uplinks, "switch %d", sw.ID)
	}

	agg13 := n.Switch(13)
	assert.Equal(t, 3, agg13.Uplinks) // 2 to core17 + 1 to core18
	assert.Equal(t, 3+2, agg13.NLinks) // 2 down to edges + 3 up to cores

	edge9 := n.Switch(9)
	assert.Equal(t, 2, edge9.Uplinks) // 1 to agg13 + 1 to agg14
}

func TestCoreAggWiringMatchesScenario1(t *testing.T) {
	n := buildReferenceFatTree(t)

	w, coreKey, aggKey := n.CoreAggWiring()

	want := [][]int{
		{2, 1, 2, 1}, // core 17 vs agg 13,14,15,16
		{1, 2, 1, 2}, // core 18
	}

	rowOf := func(c SwitchID) []int {
		r := coreKey[c]
		out := make([]int, len(aggKey))
		for agg, col := range aggKey {
			out[col] = w[r][col]
			_ = agg
		}
		return out
	}
	assert.Equal(t, want[0], rowOf(17))
	assert.Equal(t, want[1], rowOf(18))
}

func TestGetTierAscendingOrder(t *testing.T) {
	n := buildReferenceFatTree(t)
	assert.Equal(t, []SwitchID{1, 2, 3, 4, 5, 6, 7, 8}, n.GetTier(Host))
	assert.Equal(t, []SwitchID{13, 14, 15, 16}, n.GetTier(Agg))
}

func TestAddSwitchDuplicateAndBadTier(t *testing.T) {
	n := New()
	require.NoError(t, n.AddSwitch(1, 4, Host))
	assert.ErrorIs(t, n.AddSwitch(1, 4, Host), ErrDuplicateID)
	assert.ErrorIs(t, n.AddSwitch(2, 4, Tier(99)), ErrBadTier)
}

func TestAddLinkPortsExhausted(t *testing.T) {
	n := New()
	require.NoError(t, n.AddSwitch(1, 2, Host))
	require.NoError(t, n.AddSwitch(2, 2, Edge))

	require.NoError(t, n.AddLink(1, 2, 2))
	err := n.AddLink(1, 2, 1)
	assert.ErrorIs(t, err, ErrPortsExhausted)

	// Failure must leave state unchanged.
	assert.Equal(t, 2, n.Switch(1).NLinks)
	assert.Equal(t, 2, n.Mult(1, 2))
}

func TestAddLinkUnknownSwitch(t *testing.T) {
	n := New()
	require.NoError(t, n.AddSwitch(1, 2, Host))
	assert.ErrorIs(t, n.AddLink(1, 99, 1), ErrUnknownSwitch)
}

func TestRemoveLinkInsufficientLinks(t *testing.T) {
	n := New()
	require.NoError(t, n.AddSwitch(1, 4, Host))
	require.NoError(t, n.AddSwitch(2, 4, Edge))
	require.NoError(t, n.AddLink(1, 2, 1))

	err := n.RemoveLink(1, 2, 2)
	assert.ErrorIs(t, err, ErrInsufficientLinks)

	// Failure must leave state unchanged.
	assert.Equal(t, 1, n.Mult(1, 2))
	assert.Equal(t, 1, n.Switch(1).NLinks)
}

func TestRemoveLinkFreesTailPorts(t *testing.T) {
	n := New()
	require.NoError(t, n.AddSwitch(1, 4, Agg))
	require.NoError(t, n.AddSwitch(2, 4, Core))
	require.NoError(t, n.AddLink(1, 2, 3))
	assert.Equal(t, []int{1, 2, 3}, n.Switch(1).Ports(2))

	require.NoError(t, n.RemoveLink(1, 2, 1))
	assert.Equal(t, []int{1, 2}, n.Switch(1).Ports(2))
	assert.Equal(t, 2, n.Switch(1).NLinks)

	// A subsequent AddLink to the same neighbor allocates NLinks+1, which
	// reuses the freed port number 3.
	require.NoError(t, n.AddLink(1, 2, 1))
	assert.Equal(t, []int{1, 2, 3}, n.Switch(1).Ports(2))
}

func TestCloneIsIndependent(t *testing.T) {
	n := buildReferenceFatTree(t)
	clone := n.Clone()

	require.NoError(t, clone.AddSwitch(19, 4, Core))
	assert.Nil(t, n.Switch(19))
	assert.NotNil(t, clone.Switch(19))

	require.NoError(t, clone.RemoveLink(13, 17, 1))
	assert.Equal(t, 2, n.Mult(13, 17))
	assert.Equal(t, 1, clone.Mult(13, 17))
}

func TestExportNodeLinkShape(t *testing.T) {
	n := New()
	require.NoError(t, n.AddSwitch(1, 2, Host))
	require.NoError(t, n.AddSwitch(2, 2, Edge))
	require.NoError(t, n.AddLink(1, 2, 2))

	g := n.Export()
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Links, 1)
	assert.Equal(t, 2, g.Links[0].Count)
}
