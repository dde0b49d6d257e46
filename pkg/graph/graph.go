// Package graph holds the in-memory provenance graph: a dense-id identifier
// map plus forward and reverse adjacency indexes. The graph is built once
// from a finalized edge list and is immutable afterwards, which makes it safe
// to share across concurrent readers.
package graph

import (
	"fmt"
	"sort"
)

// NamedEdge is one row of the finalized edge list, still keyed by node names.
type NamedEdge struct {
	Src   string
	Dst   string
	Label string
}

// Graph is the adjacency representation. For every node id it keeps the
// outgoing neighbor ids (for descendants) and the incoming neighbor ids (for
// ancestors), deduplicated, in first-seen insertion order.
type Graph struct {
	ids       *IDMap
	out       [][]NodeID
	in        [][]NodeID
	edgeCount int
	selfLoops int
}

// Build constructs the graph from a finalized edge list. Name translation
// happens here, once; queries never touch strings. Duplicate (src, dst) pairs
// are collapsed, self-loops are stored once in each direction and counted as
// an anomaly.
func Build(edges []NamedEdge) (*Graph, error) {
	g := &Graph{ids: newIDMap()}

	// packed (src, dst) pair -> seen, for O(1) dedup during the single pass.
	seen := make(map[uint64]struct{}, len(edges))

	for i, e := range edges {
		if e.Src == "" || e.Dst == "" {
			return nil, fmt.Errorf("edge %d: empty endpoint (src=%q dst=%q)", i, e.Src, e.Dst)
		}
		src := g.ids.add(e.Src)
		dst := g.ids.add(e.Dst)

		// Ensure adjacency slots exist for every assigned id.
		for len(g.out) < g.ids.Len() {
			g.out = append(g.out, nil)
			g.in = append(g.in, nil)
		}

		key := uint64(src)<<32 | uint64(dst)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		g.out[src] = append(g.out[src], dst)
		g.in[dst] = append(g.in[dst], src)
		g.edgeCount++
		if src == dst {
			g.selfLoops++
		}
	}

	return g, nil
}

// IDs returns the identifier map.
func (g *Graph) IDs() *IDMap {
	return g.ids
}

// NumNodes returns the number of distinct nodes.
func (g *Graph) NumNodes() int {
	return g.ids.Len()
}

// NumEdges returns the number of deduplicated edges.
func (g *Graph) NumEdges() int {
	return g.edgeCount
}

// SelfLoops returns the number of edges with src == dst.
func (g *Graph) SelfLoops() int {
	return g.selfLoops
}

// OutNeighbors returns the outgoing neighbors of id in insertion order.
// The returned slice is owned by the graph and must not be mutated.
func (g *Graph) OutNeighbors(id NodeID) ([]NodeID, error) {
	if int(id) >= len(g.out) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return g.out[id], nil
}

// InNeighbors returns the incoming neighbors of id in insertion order.
// The returned slice is owned by the graph and must not be mutated.
func (g *Graph) InNeighbors(id NodeID) ([]NodeID, error) {
	if int(id) >= len(g.in) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return g.in[id], nil
}

// OutDegree returns len(OutNeighbors(id)).
func (g *Graph) OutDegree(id NodeID) (int, error) {
	n, err := g.OutNeighbors(id)
	if err != nil {
		return 0, err
	}
	return len(n), nil
}

// InDegree returns len(InNeighbors(id)).
func (g *Graph) InDegree(id NodeID) (int, error) {
	n, err := g.InNeighbors(id)
	if err != nil {
		return 0, err
	}
	return len(n), nil
}

// DegreeEntry pairs a node with its out-degree, for stats reporting.
type DegreeEntry struct {
	ID        NodeID `json:"id"`
	Name      string `json:"node"`
	OutDegree int    `json:"out_degree"`
}

// TopOutDegree returns the n highest out-degree nodes, ties broken by id so
// the ordering is stable across runs.
func (g *Graph) TopOutDegree(n int) []DegreeEntry {
	entries := make([]DegreeEntry, 0, len(g.out))
	for id, adj := range g.out {
		if len(adj) == 0 {
			continue
		}
		entries = append(entries, DegreeEntry{
			ID:        NodeID(id),
			Name:      g.ids.names[id],
			OutDegree: len(adj),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].OutDegree != entries[j].OutDegree {
			return entries[i].OutDegree > entries[j].OutDegree
		}
		return entries[i].ID < entries[j].ID
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
