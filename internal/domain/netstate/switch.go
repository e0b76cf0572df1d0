package netstate

import (
	"fmt"
	"sort"
	"strings"
)

// SwitchID is a dense, network-unique switch identifier, sid >= 1.
type SwitchID int

// Switch is a single node in the fabric multigraph.
type Switch struct {
	ID        SwitchID
	Tier      Tier
	NPorts    int
	TierIndex int // 0-based ordinal within Tier, assigned at creation

	// links maps a neighbor id to the ordered list of local port numbers
	// used by that adjacency (invariant 3: distinct, in [1, NPorts],
	// pairwise disjoint across neighbors).
	links map[SwitchID][]int

	NLinks  int // sum over neighbors of link counts = total occupied ports
	Uplinks int // subset of NLinks whose other endpoint is strictly higher tier
}

func newSwitch(id SwitchID, nports int, tier Tier, tierIndex int) *Switch {
	return &Switch{
		ID:        id,
		Tier:      tier,
		NPorts:    nports,
		TierIndex: tierIndex,
		links:     make(map[SwitchID][]int),
	}
}

// Ports returns a copy of the local port numbers used toward neighbor.
func (s *Switch) Ports(neighbor SwitchID) []int {
	p := s.links[neighbor]
	if len(p) == 0 {
		return nil
	}
	out := make([]int, len(p))
	copy(out, p)
	return out
}

// Neighbors returns the ids this switch has at least one link to, in an
// unspecified but stable (sorted) order.
func (s *Switch) Neighbors() []SwitchID {
	out := make([]SwitchID, 0, len(s.links))
	for n := range s.links {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Switch) clone() *Switch {
	c := *s
	c.links = make(map[SwitchID][]int, len(s.links))
	for k, v := range s.links {
		cp := make([]int, len(v))
		copy(cp, v)
		c.links[k] = cp
	}
	return &c
}

// String renders a human-readable dump, in the spirit of the original
// Python implementation's Switch.__str__.
func (s *Switch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Switch %d, of tier '%s', with %d ports\n", s.ID, s.Tier, s.NPorts)
	fmt.Fprintf(&b, "Has %d links, with %d of them pointing up\n", s.NLinks, s.Uplinks)

	neighbors := s.Neighbors()
	parts := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		parts = append(parts, fmt.Sprintf("Switch %d at ports %v", n, s.links[n]))
	}
	fmt.Fprintf(&b, "Linked to %s", strings.Join(parts, ", "))
	return b.String()
}
