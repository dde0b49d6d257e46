package ingest

import (
	"encoding/json"

	"github.com/modelprov/lineage/pkg/graph"
)

// GraphStats are the graph-level aggregates consumed by the reporting
// collaborator. Computed by walking the built graph once, no query required.
type GraphStats struct {
	Nodes        int                 `json:"node_count"`
	Edges        int                 `json:"edge_count"`
	SelfLoops    int                 `json:"self_loop_count"`
	TopOutDegree []graph.DegreeEntry `json:"top_out_degree_nodes"`
}

// CollectStats gathers aggregates from a built graph.
func CollectStats(g *graph.Graph, topN int) GraphStats {
	return GraphStats{
		Nodes:        g.NumNodes(),
		Edges:        g.NumEdges(),
		SelfLoops:    g.SelfLoops(),
		TopOutDegree: g.TopOutDegree(topN),
	}
}

// JSON renders the stats artifact.
func (s GraphStats) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
