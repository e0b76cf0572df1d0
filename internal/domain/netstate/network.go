// Package netstate implements the typed multigraph of switches and links:
// a tiered network state with per-switch port budgets, exact
// port-numbering rules, and the derived agg<->core wiring matrix the
// planner operates on. It is a single source of truth -- an arena of
// switch records plus one canonical edge map -- rather than redundant
// switch-local and global edge storage.
package netstate

// edgeKey is the canonical, order-independent identity of an adjacency.
type edgeKey struct {
	lo, hi SwitchID
}

func canon(u, v SwitchID) edgeKey {
	if u <= v {
		return edgeKey{u, v}
	}
	return edgeKey{v, u}
}

// Network is the live, authoritative fabric state. It is not safe for
// concurrent use: the core is single-threaded and synchronous, and callers
// serialize their own access.
type Network struct {
	switches  map[SwitchID]*Switch
	edges     map[edgeKey]int
	tierOrder map[Tier][]SwitchID // ascending tier_index per tier
	maxSid    SwitchID
}

// New returns an empty network.
func New() *Network {
	return &Network{
		switches:  make(map[SwitchID]*Switch),
		edges:     make(map[edgeKey]int),
		tierOrder: make(map[Tier][]SwitchID),
	}
}

// MaxSid returns the largest switch id registered so far, or 0 if none.
func (n *Network) MaxSid() SwitchID { return n.maxSid }

// AddSwitch registers a new switch. Fails with ErrDuplicateID if sid is
// already present, ErrBadTier if tier is outside the enum.
func (n *Network) AddSwitch(sid SwitchID, nports int, tier Tier) error {
	if _, exists := n.switches[sid]; exists {
		return ErrDuplicateID
	}
	if !tier.valid() {
		return ErrBadTier
	}

	tierIndex := len(n.tierOrder[tier])
	n.switches[sid] = newSwitch(sid, nports, tier, tierIndex)
	n.tierOrder[tier] = append(n.tierOrder[tier], sid)
	if sid > n.maxSid {
		n.maxSid = sid
	}
	return nil
}

// Switch returns the switch record for sid, or nil if unregistered.
func (n *Network) Switch(sid SwitchID) *Switch {
	return n.switches[sid]
}

// AddLink increases the multiplicity between u and v by count, allocating
// count fresh ports on each side. The newly allocated port number for the
// i-th new link (i in [0, count)) is current_nlinks + 1 + i.
//
// Fails with ErrUnknownSwitch if either endpoint is absent, ErrPortsExhausted
// if either side cannot fit count more links. A failed call leaves the
// network unchanged.
func (n *Network) AddLink(u, v SwitchID, count int) error {
	if count <= 0 {
		return nil
	}

	su, sv := n.switches[u], n.switches[v]
	if su == nil || sv == nil {
		return ErrUnknownSwitch
	}
	if su.NLinks+count > su.NPorts || sv.NLinks+count > sv.NPorts {
		return ErrPortsExhausted
	}

	allocate := func(s *Switch, neighbor SwitchID) {
		base := s.NLinks + 1
		ports := make([]int, count)
		for i := 0; i < count; i++ {
			ports[i] = base + i
		}
		s.links[neighbor] = append(s.links[neighbor], ports...)
		s.NLinks += count
	}
	allocate(su, v)
	allocate(sv, u)

	// Invariant 4: uplinks(u) = sum over v with tier(v) > tier(u) of mult(u,v).
	// Only the strictly-lower-tier endpoint accrues the uplink count.
	if v != u {
		if sv.Tier > su.Tier {
			su.Uplinks += count
		} else if su.Tier > sv.Tier {
			sv.Uplinks += count
		}
	}

	n.edges[canon(u, v)] += count
	return nil
}

// RemoveLink decreases the multiplicity between u and v by count, truncating
// the tail (highest-numbered) ports of each endpoint's port list. Freed port
// numbers are never reassigned to other adjacencies.
//
// Fails with ErrUnknownSwitch if either endpoint is absent,
// ErrInsufficientLinks if fewer than count parallel links exist. A failed
// call leaves the network unchanged.
func (n *Network) RemoveLink(u, v SwitchID, count int) error {
	if count <= 0 {
		return nil
	}

	su, sv := n.switches[u], n.switches[v]
	if su == nil || sv == nil {
		return ErrUnknownSwitch
	}

	have := len(su.links[v])
	if have < count {
		return ErrInsufficientLinks
	}

	truncate := func(s *Switch, neighbor SwitchID) {
		ports := s.links[neighbor]
		ports = ports[:len(ports)-count]
		if len(ports) == 0 {
			delete(s.links, neighbor)
		} else {
			s.links[neighbor] = ports
		}
		s.NLinks -= count
	}
	truncate(su, v)
	truncate(sv, u)

	if v != u {
		if sv.Tier > su.Tier {
			su.Uplinks -= count
		} else if su.Tier > sv.Tier {
			sv.Uplinks -= count
		}
	}

	n.edges[canon(u, v)] -= count
	return nil
}

// GetTier returns the switch ids in tier t, in ascending tier_index order.
func (n *Network) GetTier(t Tier) []SwitchID {
	src := n.tierOrder[t]
	out := make([]SwitchID, len(src))
	copy(out, src)
	return out
}

// Linked reports whether multiplicity > 0 between u and v, in either
// orientation.
func (n *Network) Linked(u, v SwitchID) bool {
	return n.edges[canon(u, v)] > 0
}

// Mult returns the current link multiplicity between u and v (0 if none).
func (n *Network) Mult(u, v SwitchID) int {
	return n.edges[canon(u, v)]
}

// CoreAggWiring returns the agg<->core wiring matrix W (rows = core switches,
// columns = agg switches, in ascending tier_index order) along with the
// switch-id -> row/column index maps. Callers receive both maps explicitly
// rather than one merged map that silently drops the other's entries.
func (n *Network) CoreAggWiring() (w [][]int, coreKey, aggKey map[SwitchID]int) {
	cores := n.GetTier(Core)
	aggs := n.GetTier(Agg)

	coreKey = make(map[SwitchID]int, len(cores))
	for i, sid := range cores {
		coreKey[sid] = i
	}
	aggKey = make(map[SwitchID]int, len(aggs))
	for j, sid := range aggs {
		aggKey[sid] = j
	}

	w = make([][]int, len(cores))
	for i := range w {
		w[i] = make([]int, len(aggs))
	}

	for cSid, r := range coreKey {
		sw := n.switches[cSid]
		for neighbor := range sw.links {
			if c, ok := aggKey[neighbor]; ok {
				w[r][c] = n.Mult(cSid, neighbor)
			}
		}
	}
	return w, coreKey, aggKey
}

// Clone returns a deep, independent copy of the network, used by the
// orchestrator to snapshot state before a risky expansion.
func (n *Network) Clone() *Network {
	c := &Network{
		switches:  make(map[SwitchID]*Switch, len(n.switches)),
		edges:     make(map[edgeKey]int, len(n.edges)),
		tierOrder: make(map[Tier][]SwitchID, len(n.tierOrder)),
		maxSid:    n.maxSid,
	}
	for id, sw := range n.switches {
		c.switches[id] = sw.clone()
	}
	for k, v := range n.edges {
		c.edges[k] = v
	}
	for t, ids := range n.tierOrder {
		cp := make([]SwitchID, len(ids))
		copy(cp, ids)
		c.tierOrder[t] = cp
	}
	return c
}
