// Package bench executes a workload against the query engine and collects
// throughput and latency percentiles. Result artifacts go through the
// storage.BlobStore so CI runs can ship them to S3 unchanged.
package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/modelprov/lineage/pkg/engine"
	"github.com/modelprov/lineage/pkg/storage"
	"github.com/modelprov/lineage/pkg/telemetry"

	"github.com/modelprov/lineage/internal/workload"
)

// Result is one executed query with its observed latency.
type Result struct {
	QType       string  `json:"qtype"`
	Node        string  `json:"node"`
	K           int     `json:"k"`
	NodeCount   int     `json:"node_count"`
	HopsReached int     `json:"hops_reached"`
	LatencyMS   float64 `json:"latency_ms"`
}

// Stats aggregates one workload run. Field names mirror the stats.json
// artifact consumed downstream.
type Stats struct {
	TotalQueries     int     `json:"total_queries"`
	TotalTimeSeconds float64 `json:"total_time_seconds"`
	QPS              float64 `json:"qps"`
	LatencyP50MS     float64 `json:"latency_p50_ms"`
	LatencyP95MS     float64 `json:"latency_p95_ms"`
	LatencyP99MS     float64 `json:"latency_p99_ms"`
	LatencyAvgMS     float64 `json:"latency_avg_ms"`
	LatencyMinMS     float64 `json:"latency_min_ms"`
	LatencyMaxMS     float64 `json:"latency_max_ms"`
	AvgVisitedNodes  float64 `json:"avg_visited_nodes"`
}

// Runner executes workloads sequentially on a single engine. Queries are
// CPU-bound memory traversals; the epoch visited strategy makes the engine
// single-query-at-a-time, so the runner never parallelizes within one engine.
type Runner struct {
	engine  *engine.Engine
	results []Result
}

func NewRunner(e *engine.Engine) *Runner {
	return &Runner{engine: e}
}

// Results returns the per-query rows collected so far.
func (r *Runner) Results() []Result {
	return r.results
}

// Run executes every query in order and returns aggregate stats.
func (r *Runner) Run(ctx context.Context, queries []workload.Query) (Stats, error) {
	tracer := telemetry.Tracer("lineage/bench")
	ctx, span := tracer.Start(ctx, "bench.run")
	defer span.End()
	span.SetAttributes(attribute.Int("workload.queries", len(queries)))

	began := time.Now()
	latencies := make([]float64, 0, len(queries))

	for i, q := range queries {
		res, err := r.runQuery(q)
		if err != nil {
			return Stats{}, fmt.Errorf("query %d (%s %q): %w", i, q.QType, q.Node, err)
		}
		r.results = append(r.results, res)
		latencies = append(latencies, res.LatencyMS)

		if (i+1)%100 == 0 {
			slog.Info("bench progress", "done", i+1, "total", len(queries))
		}
	}

	total := time.Since(began).Seconds()
	return summarize(r.results, latencies, total), nil
}

func (r *Runner) runQuery(q workload.Query) (Result, error) {
	var (
		qr  engine.QueryResult
		err error
	)
	switch q.QType {
	case "descendants":
		qr, err = r.engine.Descendants(q.Node, hops(q.K), engine.Unbounded)
	case "ancestors":
		qr, err = r.engine.Ancestors(q.Node, hops(q.K), engine.Unbounded)
	case "k_hop":
		dir := q.Direction
		if dir == "" {
			dir = "out"
		}
		var d engine.Direction
		d, err = engine.ParseDirection(dir)
		if err == nil {
			qr, err = r.engine.KHop(q.Node, q.K, d)
		}
	default:
		return Result{}, fmt.Errorf("unknown query type %q", q.QType)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{
		QType:       q.QType,
		Node:        q.Node,
		K:           q.K,
		NodeCount:   qr.VisitedCount,
		HopsReached: qr.HopsReached,
		LatencyMS:   qr.ElapsedMS,
	}, nil
}

// hops maps a workload k onto the engine's hop bound; 0 means unbounded in
// the workload format.
func hops(k int) int {
	if k <= 0 {
		return engine.Unbounded
	}
	return k
}

func summarize(results []Result, latencies []float64, totalSeconds float64) Stats {
	if len(latencies) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)

	sum := 0.0
	visited := 0
	for i, l := range latencies {
		sum += l
		visited += results[i].NodeCount
	}

	qps := 0.0
	if totalSeconds > 0 {
		qps = float64(len(latencies)) / totalSeconds
	}

	return Stats{
		TotalQueries:     len(latencies),
		TotalTimeSeconds: totalSeconds,
		QPS:              qps,
		LatencyP50MS:     sorted[len(sorted)/2],
		LatencyP95MS:     percentile(sorted, 0.95),
		LatencyP99MS:     percentile(sorted, 0.99),
		LatencyAvgMS:     sum / float64(len(latencies)),
		LatencyMinMS:     sorted[0],
		LatencyMaxMS:     sorted[len(sorted)-1],
		AvgVisitedNodes:  float64(visited) / float64(len(results)),
	}
}

func percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// SaveResults writes the per-query CSV and the aggregate stats JSON through
// the blob store.
func (r *Runner) SaveResults(ctx context.Context, store storage.BlobStore, resultsKey, statsKey string, stats Stats) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"qtype", "node", "k", "node_count", "hops_reached", "latency_ms"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, res := range r.results {
		record := []string{
			res.QType,
			res.Node,
			strconv.Itoa(res.K),
			strconv.Itoa(res.NodeCount),
			strconv.Itoa(res.HopsReached),
			strconv.FormatFloat(res.LatencyMS, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := store.Put(ctx, resultsKey, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to persist results: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	if err := store.Put(ctx, statsKey, data); err != nil {
		return fmt.Errorf("failed to persist stats: %w", err)
	}
	return nil
}
