package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelprov/lineage/pkg/graph"
)

// buildDiamond builds A->B, B->C, B->D, C->D (ids A=0, B=1, C=2, D=3).
func buildDiamond(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]graph.NamedEdge{
		{Src: "A", Dst: "B"},
		{Src: "B", Dst: "C"},
		{Src: "B", Dst: "D"},
		{Src: "C", Dst: "D"},
	})
	require.NoError(t, err)
	return g
}

func newEngine(t *testing.T, g *graph.Graph, s Strategy) *Engine {
	t.Helper()
	e, err := New(g, WithStrategy(s))
	require.NoError(t, err)
	return e
}

func TestDescendantsDiamond(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	res, err := e.Descendants("A", Unbounded, Unbounded)
	require.NoError(t, err)

	assert.ElementsMatch(t, []graph.NodeID{1, 2, 3}, res.Nodes)
	assert.Equal(t, 3, res.VisitedCount)
	assert.Equal(t, 2, res.HopsReached)
}

func TestAncestorsWithHopCeiling(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	res, err := e.Ancestors("D", 1, Unbounded)
	require.NoError(t, err)

	// Both predecessors of D sit at hop 1; A at hop 2 is past the ceiling.
	assert.ElementsMatch(t, []graph.NodeID{1, 2}, res.Nodes)
	assert.Equal(t, 1, res.HopsReached)
}

func TestZeroHopsMatchesNothing(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	for _, op := range []func(string, int, int) (QueryResult, error){e.Descendants, e.Ancestors} {
		res, err := op("B", 0, Unbounded)
		require.NoError(t, err)
		assert.Empty(t, res.Nodes)
		assert.Equal(t, 0, res.VisitedCount)
		assert.Equal(t, 0, res.HopsReached)
	}
}

func TestResultLimit(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	// True reachable count from A is 3; matched count must be min(L, 3).
	for limit := 1; limit <= 5; limit++ {
		res, err := e.Descendants("A", Unbounded, limit)
		require.NoError(t, err)
		want := limit
		if want > 3 {
			want = 3
		}
		assert.Equal(t, want, res.VisitedCount, "limit %d", limit)
	}
}

func TestBFSTieBreakIsInsertionOrder(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	res, err := e.Descendants("B", Unbounded, Unbounded)
	require.NoError(t, err)
	// B's adjacency was inserted C then D; discovery order must follow.
	assert.Equal(t, []graph.NodeID{2, 3}, res.Nodes)

	res, err = e.Descendants("B", Unbounded, 1)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{2}, res.Nodes)
}

func TestKHop(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	res, err := e.KHop("A", 1, DirectionOut)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{1}, res.Nodes)
	assert.Equal(t, 1, res.HopsReached)

	res, err = e.KHop("A", 2, DirectionOut)
	require.NoError(t, err)
	assert.ElementsMatch(t, []graph.NodeID{1, 2, 3}, res.Nodes)
	assert.Equal(t, 2, res.HopsReached)

	// Ceiling above the graph depth: hops reached reports actual depth.
	res, err = e.KHop("A", 10, DirectionOut)
	require.NoError(t, err)
	assert.Equal(t, 2, res.HopsReached)
}

func TestKHopZero(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	res, err := e.KHop("A", 0, DirectionOut)
	require.NoError(t, err)
	assert.Empty(t, res.Nodes)
	assert.Equal(t, 0, res.HopsReached)
}

func TestKHopNegative(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	_, err := e.KHop("A", -1, DirectionOut)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestKHopReverse(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	res, err := e.KHop("D", 1, DirectionIn)
	require.NoError(t, err)
	assert.ElementsMatch(t, []graph.NodeID{1, 2}, res.Nodes)
}

func TestUnknownNode(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	_, err := e.Descendants("nope", Unbounded, Unbounded)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)

	_, err = e.KHop("nope", 1, DirectionOut)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)

	_, err = e.ShortestPath("A", "nope", DirectionOut)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestInvalidBounds(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	_, err := e.Descendants("A", -2, Unbounded)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = e.Descendants("A", Unbounded, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestShortestPath(t *testing.T) {
	e := newEngine(t, buildDiamond(t), StrategyFresh)

	// BFS discovers D through B first (insertion-order tie-break).
	path, err := e.ShortestPath("A", "D", DirectionOut)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{0, 1, 3}, path)

	// Same node: single-node path, no traversal.
	path, err = e.ShortestPath("B", "B", DirectionOut)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{1}, path)

	// Unreachable forward: no path, not an error.
	path, err = e.ShortestPath("D", "A", DirectionOut)
	require.NoError(t, err)
	assert.Nil(t, path)

	// Reverse direction walks the in-neighbor index.
	path, err = e.ShortestPath("D", "A", DirectionIn)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, graph.NodeID(3), path[0])
	assert.Equal(t, graph.NodeID(0), path[2])
}

func TestSelfLoopTerminates(t *testing.T) {
	g, err := graph.Build([]graph.NamedEdge{
		{Src: "X", Dst: "X"},
		{Src: "X", Dst: "Y"},
	})
	require.NoError(t, err)
	e := newEngine(t, g, StrategyFresh)

	// X is marked visited before its own self-loop edge is examined, so the
	// traversal must terminate and X must not match as its own descendant.
	res, err := e.Descendants("X", Unbounded, Unbounded)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{1}, res.Nodes)
}

func TestCycleTerminates(t *testing.T) {
	g, err := graph.Build([]graph.NamedEdge{
		{Src: "A", Dst: "B"},
		{Src: "B", Dst: "C"},
		{Src: "C", Dst: "A"},
	})
	require.NoError(t, err)

	for _, s := range []Strategy{StrategyFresh, StrategyEpoch} {
		e := newEngine(t, g, s)
		res, err := e.Descendants("A", Unbounded, Unbounded)
		require.NoError(t, err)
		assert.Equal(t, 2, res.VisitedCount, "strategy %s", s)
	}
}

// TestStrategyEquivalence runs the same query sequence against both visited
// strategies and requires identical node sets, including discovery order.
func TestStrategyEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var edges []graph.NamedEdge
	for i := 0; i < 2000; i++ {
		edges = append(edges, graph.NamedEdge{
			Src: fmt.Sprintf("n%d", rng.Intn(300)),
			Dst: fmt.Sprintf("n%d", rng.Intn(300)),
		})
	}
	g, err := graph.Build(edges)
	require.NoError(t, err)

	fresh := newEngine(t, g, StrategyFresh)
	epoch := newEngine(t, g, StrategyEpoch)

	for q := 0; q < 100; q++ {
		name, err := g.IDs().NameOf(graph.NodeID(rng.Intn(g.NumNodes())))
		require.NoError(t, err)
		maxHops := rng.Intn(5)
		if maxHops == 4 {
			maxHops = Unbounded
		}

		for _, dir := range []Direction{DirectionOut, DirectionIn} {
			var rf, re QueryResult
			if dir == DirectionOut {
				rf, err = fresh.Descendants(name, maxHops, Unbounded)
				require.NoError(t, err)
				re, err = epoch.Descendants(name, maxHops, Unbounded)
				require.NoError(t, err)
			} else {
				rf, err = fresh.Ancestors(name, maxHops, Unbounded)
				require.NoError(t, err)
				re, err = epoch.Ancestors(name, maxHops, Unbounded)
				require.NoError(t, err)
			}
			require.Equal(t, rf.Nodes, re.Nodes, "node %s maxHops %d dir %v", name, maxHops, dir)
			require.Equal(t, rf.HopsReached, re.HopsReached)
			require.Equal(t, rf.VisitedCount, re.VisitedCount)
		}
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("out")
	require.NoError(t, err)
	assert.Equal(t, DirectionOut, d)

	d, err = ParseDirection("in")
	require.NoError(t, err)
	assert.Equal(t, DirectionIn, d)

	_, err = ParseDirection("sideways")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
