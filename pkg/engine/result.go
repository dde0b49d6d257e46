package engine

import "github.com/modelprov/lineage/pkg/graph"

// QueryResult is the output of one traversal. It is created fresh per query
// and owned by the caller.
type QueryResult struct {
	// Nodes are the matched node ids in BFS discovery order. The start node
	// is never included.
	Nodes []graph.NodeID `json:"-"`
	// VisitedCount is the number of distinct nodes visited beyond the start.
	// Exploration and matching coincide in this engine, so it equals
	// len(Nodes).
	VisitedCount int `json:"visited_count"`
	// HopsReached is the maximum hop distance actually reached, which may be
	// below a requested ceiling when the frontier empties first.
	HopsReached int `json:"hops_reached"`
	// ElapsedMS is the wall time of the traversal body, excluding name to id
	// translation.
	ElapsedMS float64 `json:"elapsed_ms"`
}
