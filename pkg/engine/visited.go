package engine

import (
	"fmt"

	"github.com/modelprov/lineage/pkg/graph"
)

// Token identifies one query against a Tracker. For the epoch strategy it is
// the query generation number; the fresh strategy ignores it.
type Token uint64

// Tracker is the visited-state capability used by the BFS. Both
// implementations must produce identical traversal results; the choice is a
// pure performance configuration made at engine construction time.
//
// A Tracker serves one query at a time. Concurrent queries need one Tracker
// (one Engine) per worker.
type Tracker interface {
	BeginQuery() Token
	Mark(t Token, id graph.NodeID)
	Seen(t Token, id graph.NodeID) bool
}

// Strategy selects a Tracker implementation.
type Strategy string

const (
	// StrategyFresh allocates a new membership set per query.
	StrategyFresh Strategy = "fresh"
	// StrategyEpoch keeps one N-sized generation array for the lifetime of
	// the engine and bumps a counter per query, avoiding the O(N) clear.
	StrategyEpoch Strategy = "epoch"
)

// NewTracker builds a Tracker for numNodes nodes.
func NewTracker(s Strategy, numNodes int) (Tracker, error) {
	switch s {
	case StrategyFresh:
		return &freshTracker{}, nil
	case StrategyEpoch:
		return &epochTracker{gens: make([]uint64, numNodes)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown visited strategy %q", ErrInvalidArgument, s)
	}
}

// freshTracker discards its membership set at every BeginQuery.
type freshTracker struct {
	seen map[graph.NodeID]struct{}
	gen  Token
}

func (f *freshTracker) BeginQuery() Token {
	f.seen = make(map[graph.NodeID]struct{}, 256)
	f.gen++
	return f.gen
}

func (f *freshTracker) Mark(_ Token, id graph.NodeID) {
	f.seen[id] = struct{}{}
}

func (f *freshTracker) Seen(_ Token, id graph.NodeID) bool {
	_, ok := f.seen[id]
	return ok
}

// epochTracker stores the generation at which each node was last touched.
// A node is visited in the current query iff its stored generation equals the
// token. The counter is 64-bit, so wrap-around collisions are not a practical
// concern within an engine's lifetime.
type epochTracker struct {
	gens  []uint64
	epoch uint64
}

func (e *epochTracker) BeginQuery() Token {
	e.epoch++
	return Token(e.epoch)
}

func (e *epochTracker) Mark(t Token, id graph.NodeID) {
	e.gens[id] = uint64(t)
}

func (e *epochTracker) Seen(t Token, id graph.NodeID) bool {
	return e.gens[id] == uint64(t)
}
