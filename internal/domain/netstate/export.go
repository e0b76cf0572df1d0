package netstate

import (
	"strconv"

	"github.com/fabricwire/rewire/pkg/grouping"
)

// GraphNode is one node in the node-link export.
type GraphNode struct {
	ID   SwitchID `json:"id"`
	Type string   `json:"type"`
	Num  int      `json:"num"`
}

// GraphLink is one edge in the node-link export.
type GraphLink struct {
	Source SwitchID `json:"source"`
	Target SwitchID `json:"target"`
	Count  int      `json:"count"`
}

// GraphExport is the northbound topology JSON consumed by the out-of-scope
// visualization UI.
type GraphExport struct {
	Nodes  []GraphNode      `json:"nodes"`
	Links  []GraphLink      `json:"links"`
	Groups []grouping.Group `json:"groups,omitempty"`
}

// Export serializes the network as a node-link graph. Groups is a thin,
// optional UI hint: one group per tier holding more than one switch.
func (n *Network) Export() GraphExport {
	nodes := make([]GraphNode, 0, len(n.switches))
	deviceTypes := make(map[string]string, len(n.switches))
	for _, sw := range n.switches {
		nodes = append(nodes, GraphNode{ID: sw.ID, Type: sw.Tier.String(), Num: sw.TierIndex})
		deviceTypes[strconv.Itoa(int(sw.ID))] = sw.Tier.String()
	}

	links := make([]GraphLink, 0, len(n.edges))
	for k, count := range n.edges {
		if count <= 0 {
			continue
		}
		links = append(links, GraphLink{Source: k.lo, Target: k.hi, Count: count})
	}

	groups := grouping.GroupByType(deviceTypes)

	return GraphExport{Nodes: nodes, Links: links, Groups: groups}
}
