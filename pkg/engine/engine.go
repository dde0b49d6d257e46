// Package engine runs lineage traversal queries over an immutable graph.
// All four operations are variants of one bounded BFS; direction selects the
// forward or reverse adjacency index.
package engine

import (
	"fmt"
	"time"

	"github.com/modelprov/lineage/pkg/graph"
)

// Unbounded disables a hop or result limit.
const Unbounded = -1

// Engine is the query facade. It holds no per-query state beyond its visited
// Tracker, so it is NOT safe for concurrent queries: give each worker its own
// Engine (the underlying graph is read-only and shared freely).
type Engine struct {
	g       *graph.Graph
	tracker Tracker
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	strategy Strategy
}

// WithStrategy selects the visited-tracking strategy. Default is
// StrategyFresh; StrategyEpoch trades one persistent N-sized array for
// skipping the per-query clear.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// New builds an Engine over g.
func New(g *graph.Graph, opts ...Option) (*Engine, error) {
	o := options{strategy: StrategyFresh}
	for _, opt := range opts {
		opt(&o)
	}
	tracker, err := NewTracker(o.strategy, g.NumNodes())
	if err != nil {
		return nil, err
	}
	return &Engine{g: g, tracker: tracker}, nil
}

// Graph returns the underlying graph.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// Descendants returns the nodes reachable from name following outgoing
// edges. maxHops bounds the search depth (nodes at exactly maxHops are
// included), limit bounds the matched-node count; pass Unbounded for either.
func (e *Engine) Descendants(name string, maxHops, limit int) (QueryResult, error) {
	return e.lineage(name, DirectionOut, maxHops, limit)
}

// Ancestors returns the nodes reachable from name following incoming edges.
func (e *Engine) Ancestors(name string, maxHops, limit int) (QueryResult, error) {
	return e.lineage(name, DirectionIn, maxHops, limit)
}

func (e *Engine) lineage(name string, dir Direction, maxHops, limit int) (QueryResult, error) {
	if maxHops < Unbounded {
		return QueryResult{}, fmt.Errorf("%w: max hops %d", ErrInvalidArgument, maxHops)
	}
	if limit < Unbounded || limit == 0 {
		return QueryResult{}, fmt.Errorf("%w: limit %d", ErrInvalidArgument, limit)
	}
	start, err := e.g.IDs().IDOf(name)
	if err != nil {
		return QueryResult{}, err
	}
	return e.traverse(start, dir, maxHops, limit), nil
}

// KHop returns the exploration reachable within at most k hops in the given
// direction. k == 0 yields zero matches (only the start node is touched).
func (e *Engine) KHop(name string, k int, dir Direction) (QueryResult, error) {
	if k < 0 {
		return QueryResult{}, fmt.Errorf("%w: k must be >= 0, got %d", ErrInvalidArgument, k)
	}
	if dir != DirectionOut && dir != DirectionIn {
		return QueryResult{}, fmt.Errorf("%w: direction %v", ErrInvalidArgument, dir)
	}
	start, err := e.g.IDs().IDOf(name)
	if err != nil {
		return QueryResult{}, err
	}
	return e.traverse(start, dir, k, Unbounded), nil
}

// traverse is the single bounded BFS behind every lineage operation. Ties
// within a layer follow adjacency insertion order, so results are
// deterministic for a fixed graph build. Timing wraps the traversal body
// only; name translation happens in the callers.
func (e *Engine) traverse(start graph.NodeID, dir Direction, maxHops, limit int) QueryResult {
	began := time.Now()

	neighbors := e.g.OutNeighbors
	if dir == DirectionIn {
		neighbors = e.g.InNeighbors
	}

	tok := e.tracker.BeginQuery()
	e.tracker.Mark(tok, start)

	type item struct {
		id  graph.NodeID
		hop int
	}
	queue := make([]item, 1, 64)
	queue[0] = item{id: start}

	var matched []graph.NodeID
	hopsReached := 0

expand:
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if maxHops != Unbounded && cur.hop >= maxHops {
			continue
		}
		adj, _ := neighbors(cur.id) // ids in the queue are always in range
		for _, nb := range adj {
			if e.tracker.Seen(tok, nb) {
				continue
			}
			e.tracker.Mark(tok, nb)
			matched = append(matched, nb)
			if cur.hop+1 > hopsReached {
				hopsReached = cur.hop + 1
			}
			if limit != Unbounded && len(matched) >= limit {
				break expand
			}
			queue = append(queue, item{id: nb, hop: cur.hop + 1})
		}
	}

	return QueryResult{
		Nodes:        matched,
		VisitedCount: len(matched),
		HopsReached:  hopsReached,
		ElapsedMS:    float64(time.Since(began)) / float64(time.Millisecond),
	}
}

// ShortestPath returns the unweighted shortest path from src to dst in the
// given direction as a sequence of node ids, or nil (with nil error) when dst
// is unreachable. src == dst returns the single-node path without traversal.
func (e *Engine) ShortestPath(src, dst string, dir Direction) ([]graph.NodeID, error) {
	if dir != DirectionOut && dir != DirectionIn {
		return nil, fmt.Errorf("%w: direction %v", ErrInvalidArgument, dir)
	}
	srcID, err := e.g.IDs().IDOf(src)
	if err != nil {
		return nil, err
	}
	dstID, err := e.g.IDs().IDOf(dst)
	if err != nil {
		return nil, err
	}
	if srcID == dstID {
		return []graph.NodeID{srcID}, nil
	}

	neighbors := e.g.OutNeighbors
	if dir == DirectionIn {
		neighbors = e.g.InNeighbors
	}

	tok := e.tracker.BeginQuery()
	e.tracker.Mark(tok, srcID)

	pred := make(map[graph.NodeID]graph.NodeID, 256)
	queue := make([]graph.NodeID, 1, 64)
	queue[0] = srcID

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		adj, _ := neighbors(cur)
		for _, nb := range adj {
			if e.tracker.Seen(tok, nb) {
				continue
			}
			e.tracker.Mark(tok, nb)
			pred[nb] = cur
			if nb == dstID {
				return rebuildPath(pred, srcID, dstID), nil
			}
			queue = append(queue, nb)
		}
	}

	return nil, nil
}

// rebuildPath walks predecessor links backward from dst and reverses.
func rebuildPath(pred map[graph.NodeID]graph.NodeID, src, dst graph.NodeID) []graph.NodeID {
	path := []graph.NodeID{dst}
	for cur := dst; cur != src; {
		cur = pred[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
