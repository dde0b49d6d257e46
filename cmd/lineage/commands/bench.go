package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/modelprov/lineage/pkg/engine"
	"github.com/modelprov/lineage/pkg/storage"
	"github.com/modelprov/lineage/pkg/telemetry"
	"github.com/modelprov/lineage/pkg/version"

	"github.com/modelprov/lineage/internal/bench"
	"github.com/modelprov/lineage/internal/ingest"
	"github.com/modelprov/lineage/internal/workload"
)

var (
	benchWorkload string
	benchResults  string
	benchStats    string
	benchEpoch    bool
	benchOutDir   string
	benchBucket   string
	benchOTLP     string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a workload and collect latency percentiles",
	Long: `Execute a JSONL workload against the in-memory engine, then write
per-query results (CSV) and aggregate stats (JSON). With --s3-bucket the
artifacts go to S3 instead of the local results directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		shutdown, err := telemetry.Init(ctx, "lineage-bench", version.Current, benchOTLP)
		if err != nil {
			return err
		}
		defer shutdown(ctx)

		g, err := ingest.LoadGraph(edgesPath)
		if err != nil {
			return err
		}

		strat := engine.StrategyFresh
		if benchEpoch {
			strat = engine.StrategyEpoch
		}
		e, err := engine.New(g, engine.WithStrategy(strat))
		if err != nil {
			return err
		}

		f, err := os.Open(benchWorkload)
		if err != nil {
			return fmt.Errorf("failed to open workload: %w", err)
		}
		queries, err := workload.Read(f)
		f.Close()
		if err != nil {
			return err
		}
		slog.Info("workload loaded", "queries", len(queries), "strategy", strat)

		runner := bench.NewRunner(e)
		stats, err := runner.Run(ctx, queries)
		if err != nil {
			return err
		}

		var store storage.BlobStore
		if benchBucket != "" {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to load aws config: %w", err)
			}
			store = storage.NewS3Store(cfg, benchBucket)
		} else {
			store = storage.NewLocalStore(benchOutDir)
		}
		if err := runner.SaveResults(ctx, store, benchResults, benchStats, stats); err != nil {
			return err
		}

		renderBenchStats(stats)
		return nil
	},
}

func renderBenchStats(stats bench.Stats) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	fmt.Println(titleStyle.Render("BENCHMARK"))
	fmt.Printf("  Queries:     %d\n", stats.TotalQueries)
	fmt.Printf("  Total time:  %.2f s\n", stats.TotalTimeSeconds)
	fmt.Printf("  QPS:         %.2f\n", stats.QPS)
	fmt.Printf("  P50:         %.3f ms\n", stats.LatencyP50MS)
	fmt.Printf("  P95:         %.3f ms\n", stats.LatencyP95MS)
	fmt.Printf("  P99:         %.3f ms\n", stats.LatencyP99MS)
	fmt.Printf("  Avg:         %.3f ms\n", stats.LatencyAvgMS)
	fmt.Printf("  Min/Max:     %.3f / %.3f ms\n", stats.LatencyMinMS, stats.LatencyMaxMS)
	fmt.Printf("  Avg visited: %.0f nodes\n", stats.AvgVisitedNodes)
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().StringVar(&benchWorkload, "workload", "workloads/workload.jsonl", "Workload JSONL path")
	benchCmd.Flags().StringVar(&benchResults, "output", "results.csv", "Per-query results key")
	benchCmd.Flags().StringVar(&benchStats, "stats", "stats.json", "Aggregate stats key")
	benchCmd.Flags().StringVar(&benchOutDir, "out-dir", "results", "Local results directory")
	benchCmd.Flags().BoolVar(&benchEpoch, "epoch", false, "Use the epoch visited strategy")
	benchCmd.Flags().StringVar(&benchBucket, "s3-bucket", "", "Upload artifacts to this S3 bucket")
	benchCmd.Flags().StringVar(&benchOTLP, "otlp-endpoint", "", "OTLP trace endpoint (default from env)")
}
