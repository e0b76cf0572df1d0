// Package router computes ECMP forwarding tables over a netstate.Network.
// The core tier's random choice takes an injectable *rand.Rand so tests
// can assert determinism.
package router

import (
	"math/rand"
	"time"

	"github.com/fabricwire/rewire/internal/domain/netstate"
)

// Routes is routes[switch][host] = egress port. Only non-host switches have
// entries. A host is absent from a switch's table when that switch has no
// port toward it: at the edge and agg tiers, no direct/pod link and no
// uplink; at the core tier, no agg neighbor that reaches the host.
type Routes map[netstate.SwitchID]map[netstate.SwitchID]int

// RouteECMP computes ECMP forwarding tables for every non-host switch in n.
// It is side-effect-free on n: it reads the network and returns an owned
// map. rng may be nil, in which case a time-seeded source is used; pass a
// seeded *rand.Rand for deterministic tests.
func RouteECMP(n *netstate.Network, rng *rand.Rand) Routes {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	routes := make(Routes)
	hosts := n.GetTier(netstate.Host)

	routeEdges(n, routes, hosts)
	routeAggs(n, routes, hosts)
	routeCores(n, routes, hosts, rng)

	return routes
}

// uplinkPorts returns the contiguous tail of port numbers reserved for
// uplinks on switch s: [NPorts-Uplinks+1, NPorts].
func uplinkPorts(s *netstate.Switch) []int {
	if s.Uplinks == 0 {
		return nil
	}
	ports := make([]int, s.Uplinks)
	start := s.NPorts - s.Uplinks + 1
	for i := range ports {
		ports[i] = start + i
	}
	return ports
}

func routeEdges(n *netstate.Network, routes Routes, hosts []netstate.SwitchID) {
	for _, eID := range n.GetTier(netstate.Edge) {
		sw := n.Switch(eID)
		up := uplinkPorts(sw)
		table := make(map[netstate.SwitchID]int, len(hosts))

		count := 0
		for _, hID := range hosts {
			if n.Linked(eID, hID) {
				table[hID] = sw.Ports(hID)[0]
				continue
			}
			if len(up) == 0 {
				continue
			}
			table[hID] = up[count%len(up)]
			count++
		}
		routes[eID] = table
	}
}

// podHosts returns the set of hosts reachable from agg switch a via one
// edge-tier hop, mapped to the edge switch that carries them ("pod" in the
// glossary), plus the edge ids directly linked to a.
func podHosts(n *netstate.Network, a netstate.SwitchID) map[netstate.SwitchID]netstate.SwitchID {
	hosts := make(map[netstate.SwitchID]netstate.SwitchID)
	sw := n.Switch(a)
	for _, neighbor := range sw.Neighbors() {
		ns := n.Switch(neighbor)
		if ns.Tier != netstate.Edge {
			continue
		}
		for _, h := range ns.Neighbors() {
			if n.Switch(h).Tier == netstate.Host {
				hosts[h] = neighbor
			}
		}
	}
	return hosts
}

func routeAggs(n *netstate.Network, routes Routes, hosts []netstate.SwitchID) {
	for _, aID := range n.GetTier(netstate.Agg) {
		sw := n.Switch(aID)
		pod := podHosts(n, aID)
		up := uplinkPorts(sw)
		table := make(map[netstate.SwitchID]int, len(hosts))

		count := 0
		for _, hID := range hosts {
			if eID, ok := pod[hID]; ok {
				table[hID] = sw.Ports(eID)[0]
				continue
			}
			if len(up) == 0 {
				continue
			}
			table[hID] = up[count%len(up)]
			count++
		}
		routes[aID] = table
	}
}

// aggOptions maps each host reachable from core switch c to the set of agg
// neighbors of c that eventually reach it via an edge-then-host hop.
func aggOptions(n *netstate.Network, c netstate.SwitchID) map[netstate.SwitchID][]netstate.SwitchID {
	opts := make(map[netstate.SwitchID][]netstate.SwitchID)
	sw := n.Switch(c)
	for _, aID := range sw.Neighbors() {
		if n.Switch(aID).Tier != netstate.Agg {
			continue
		}
		for hID := range podHosts(n, aID) {
			opts[hID] = append(opts[hID], aID)
		}
	}
	return opts
}

func routeCores(n *netstate.Network, routes Routes, hosts []netstate.SwitchID, rng *rand.Rand) {
	for _, cID := range n.GetTier(netstate.Core) {
		sw := n.Switch(cID)
		opts := aggOptions(n, cID)
		table := make(map[netstate.SwitchID]int, len(hosts))

		for _, hID := range hosts {
			var candidates []int
			for _, aID := range opts[hID] {
				candidates = append(candidates, sw.Ports(aID)...)
			}
			if len(candidates) == 0 {
				continue
			}
			table[hID] = candidates[rng.Intn(len(candidates))]
		}
		routes[cID] = table
	}
}
