package bench

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelprov/lineage/pkg/engine"
	"github.com/modelprov/lineage/pkg/graph"
	"github.com/modelprov/lineage/pkg/storage"

	"github.com/modelprov/lineage/internal/workload"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	g, err := graph.Build([]graph.NamedEdge{
		{Src: "A", Dst: "B"},
		{Src: "B", Dst: "C"},
		{Src: "B", Dst: "D"},
	})
	if err != nil {
		t.Fatal(err)
	}
	e, err := engine.New(g, engine.WithStrategy(engine.StrategyEpoch))
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(e)
}

func TestRunnerRun(t *testing.T) {
	r := newTestRunner(t)
	queries := []workload.Query{
		{QType: "descendants", Node: "A", K: 2},
		{QType: "ancestors", Node: "D", K: 0},
		{QType: "k_hop", Node: "A", K: 1, Direction: "out"},
		{QType: "k_hop", Node: "D", K: 1, Direction: "in"},
	}

	stats, err := r.Run(context.Background(), queries)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.TotalQueries != 4 {
		t.Errorf("Expected 4 queries, got %d", stats.TotalQueries)
	}
	if stats.QPS <= 0 {
		t.Errorf("Expected positive qps, got %f", stats.QPS)
	}
	if stats.LatencyMaxMS < stats.LatencyMinMS {
		t.Errorf("Max latency %f below min %f", stats.LatencyMaxMS, stats.LatencyMinMS)
	}

	results := r.Results()
	if len(results) != 4 {
		t.Fatalf("Expected 4 result rows, got %d", len(results))
	}
	// descendants(A, 2) reaches B, C, D.
	if results[0].NodeCount != 3 {
		t.Errorf("Expected 3 nodes for descendants(A), got %d", results[0].NodeCount)
	}
	// k=0 means unbounded; ancestors(D) reaches B and A.
	if results[1].NodeCount != 2 {
		t.Errorf("Expected 2 nodes for ancestors(D), got %d", results[1].NodeCount)
	}
	if results[3].NodeCount != 1 {
		t.Errorf("Expected 1 in-neighbor for D at k=1, got %d", results[3].NodeCount)
	}
}

func TestRunnerUnknownQueryType(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Run(context.Background(), []workload.Query{{QType: "mystery", Node: "A"}})
	if err == nil {
		t.Error("Expected error for unknown query type")
	}
}

func TestRunnerUnknownNode(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Run(context.Background(), []workload.Query{{QType: "descendants", Node: "nope"}})
	if err == nil {
		t.Error("Expected error for unknown node")
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(sorted, 0.5); got != 6 {
		t.Errorf("p50 = %f, want 6", got)
	}
	if got := percentile(sorted, 0.95); got != 10 {
		t.Errorf("p95 = %f, want 10", got)
	}
	// Index past the end clamps to the max.
	if got := percentile(sorted, 1.0); got != 10 {
		t.Errorf("p100 = %f, want 10", got)
	}
}

func TestSaveResults(t *testing.T) {
	r := newTestRunner(t)
	stats, err := r.Run(context.Background(), []workload.Query{
		{QType: "descendants", Node: "A", K: 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	store := storage.NewLocalStore(dir)
	if err := r.SaveResults(context.Background(), store, "results.csv", "stats.json", stats); err != nil {
		t.Fatalf("SaveResults failed: %v", err)
	}

	csvData, err := os.ReadFile(filepath.Join(dir, "results.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	if lines[0] != "qtype,node,k,node_count,hops_reached,latency_ms" {
		t.Errorf("Unexpected CSV header: %q", lines[0])
	}
	if len(lines) != 2 {
		t.Errorf("Expected header plus 1 row, got %d lines", len(lines))
	}

	statsData, err := os.ReadFile(filepath.Join(dir, "stats.json"))
	if err != nil {
		t.Fatal(err)
	}
	var back Stats
	if err := json.Unmarshal(statsData, &back); err != nil {
		t.Fatalf("stats.json is not valid JSON: %v", err)
	}
	if back.TotalQueries != 1 {
		t.Errorf("Expected 1 query in persisted stats, got %d", back.TotalQueries)
	}
}
